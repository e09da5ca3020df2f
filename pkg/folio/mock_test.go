package folio

import (
	"context"
	"fmt"
)

type MockStore struct {
	ReadAllFunc        func(ctx context.Context, table string) ([][]interface{}, error)
	ReadRowsFunc       func(ctx context.Context, table string, start, count int) ([][]interface{}, error)
	WriteRowFunc       func(ctx context.Context, table string, row int, values []interface{}) error
	DeleteRowFunc      func(ctx context.Context, table string, row int) error
	AppendRowFunc      func(ctx context.Context, table string, values []interface{}) error
	RowFormulasFunc    func(ctx context.Context, table string, row, cols int) ([]string, error)
	RowHyperlinksFunc  func(ctx context.Context, table string, row, cols int) ([]string, error)
	WriteHyperlinkFunc func(ctx context.Context, table string, row, col int, text, url string) error
	HasTableFunc       func(ctx context.Context, table string) (bool, error)
	FlushFunc          func(ctx context.Context) error

	ReadAllCalls        []string
	ReadRowsCalls       []ReadRowsCall
	WriteRowCalls       []WriteRowCall
	DeleteRowCalls      []DeleteRowCall
	AppendRowCalls      []AppendRowCall
	WriteHyperlinkCalls []WriteHyperlinkCall
	FlushCalls          int
}

type ReadRowsCall struct {
	Table        string
	Start, Count int
}

type WriteRowCall struct {
	Table  string
	Row    int
	Values []interface{}
}

type DeleteRowCall struct {
	Table string
	Row   int
}

type AppendRowCall struct {
	Table  string
	Values []interface{}
}

type WriteHyperlinkCall struct {
	Table    string
	Row, Col int
	Text     string
	URL      string
}

func (m *MockStore) ReadAll(ctx context.Context, table string) ([][]interface{}, error) {
	m.ReadAllCalls = append(m.ReadAllCalls, table)
	if m.ReadAllFunc != nil {
		return m.ReadAllFunc(ctx, table)
	}
	return nil, fmt.Errorf("ReadAll not implemented")
}

func (m *MockStore) ReadRows(ctx context.Context, table string, start, count int) ([][]interface{}, error) {
	m.ReadRowsCalls = append(m.ReadRowsCalls, ReadRowsCall{Table: table, Start: start, Count: count})
	if m.ReadRowsFunc != nil {
		return m.ReadRowsFunc(ctx, table, start, count)
	}
	return nil, fmt.Errorf("ReadRows not implemented")
}

func (m *MockStore) WriteRow(ctx context.Context, table string, row int, values []interface{}) error {
	m.WriteRowCalls = append(m.WriteRowCalls, WriteRowCall{Table: table, Row: row, Values: values})
	if m.WriteRowFunc != nil {
		return m.WriteRowFunc(ctx, table, row, values)
	}
	return nil
}

func (m *MockStore) DeleteRow(ctx context.Context, table string, row int) error {
	m.DeleteRowCalls = append(m.DeleteRowCalls, DeleteRowCall{Table: table, Row: row})
	if m.DeleteRowFunc != nil {
		return m.DeleteRowFunc(ctx, table, row)
	}
	return nil
}

func (m *MockStore) AppendRow(ctx context.Context, table string, values []interface{}) error {
	m.AppendRowCalls = append(m.AppendRowCalls, AppendRowCall{Table: table, Values: values})
	if m.AppendRowFunc != nil {
		return m.AppendRowFunc(ctx, table, values)
	}
	return nil
}

func (m *MockStore) RowFormulas(ctx context.Context, table string, row, cols int) ([]string, error) {
	if m.RowFormulasFunc != nil {
		return m.RowFormulasFunc(ctx, table, row, cols)
	}
	return make([]string, cols), nil
}

func (m *MockStore) RowHyperlinks(ctx context.Context, table string, row, cols int) ([]string, error) {
	if m.RowHyperlinksFunc != nil {
		return m.RowHyperlinksFunc(ctx, table, row, cols)
	}
	return make([]string, cols), nil
}

func (m *MockStore) WriteHyperlink(ctx context.Context, table string, row, col int, text, url string) error {
	m.WriteHyperlinkCalls = append(m.WriteHyperlinkCalls, WriteHyperlinkCall{Table: table, Row: row, Col: col, Text: text, URL: url})
	if m.WriteHyperlinkFunc != nil {
		return m.WriteHyperlinkFunc(ctx, table, row, col, text, url)
	}
	return nil
}

func (m *MockStore) HasTable(ctx context.Context, table string) (bool, error) {
	if m.HasTableFunc != nil {
		return m.HasTableFunc(ctx, table)
	}
	return true, nil
}

func (m *MockStore) Flush(ctx context.Context) error {
	m.FlushCalls++
	if m.FlushFunc != nil {
		return m.FlushFunc(ctx)
	}
	return nil
}

func (m *MockStore) Reset() {
	m.ReadAllCalls = nil
	m.ReadRowsCalls = nil
	m.WriteRowCalls = nil
	m.DeleteRowCalls = nil
	m.AppendRowCalls = nil
	m.WriteHyperlinkCalls = nil
	m.FlushCalls = 0
}
