package folio

import (
	"context"
	"fmt"
)

// memStore is an in-memory Store for behavior tests. It keeps one heading
// row plus a data slice and uses the same row addressing the query builder
// records: the first data row is addressed as row 3, matching metadata
// produced with the default heading row.
type memStore struct {
	name     string
	heading  []interface{}
	data     [][]interface{}
	formulas map[[2]int]string // {row, col} -> formula text
	links    map[[2]int]string // {row, col} -> hyperlink URL

	readAllCount int
	flushCount   int
	linkWrites   []WriteHyperlinkCall
}

func newMemStore(name string, heading []interface{}, data ...[]interface{}) *memStore {
	rows := make([][]interface{}, len(data))
	for i, d := range data {
		rows[i] = append([]interface{}{}, d...)
	}
	return &memStore{
		name:     name,
		heading:  heading,
		data:     rows,
		formulas: make(map[[2]int]string),
		links:    make(map[[2]int]string),
	}
}

func (m *memStore) dataIndex(row int) int {
	return row - 3
}

func (m *memStore) checkTable(table string) error {
	if table != m.name {
		return ErrTableNotFound
	}
	return nil
}

func (m *memStore) ReadAll(ctx context.Context, table string) ([][]interface{}, error) {
	if err := m.checkTable(table); err != nil {
		return nil, err
	}
	m.readAllCount++
	out := [][]interface{}{m.heading}
	for _, d := range m.data {
		out = append(out, append([]interface{}{}, d...))
	}
	return out, nil
}

func (m *memStore) ReadRows(ctx context.Context, table string, start, count int) ([][]interface{}, error) {
	if err := m.checkTable(table); err != nil {
		return nil, err
	}
	all := [][]interface{}{m.heading}
	for _, d := range m.data {
		all = append(all, d)
	}
	if start < 1 || start > len(all) || count < 1 {
		return nil, nil
	}
	end := start - 1 + count
	if end > len(all) {
		end = len(all)
	}
	return all[start-1 : end], nil
}

func (m *memStore) WriteRow(ctx context.Context, table string, row int, values []interface{}) error {
	if err := m.checkTable(table); err != nil {
		return err
	}
	i := m.dataIndex(row)
	if i < 0 || i >= len(m.data) {
		return fmt.Errorf("row %d out of range", row)
	}
	m.data[i] = append([]interface{}{}, values...)
	return nil
}

func (m *memStore) DeleteRow(ctx context.Context, table string, row int) error {
	if err := m.checkTable(table); err != nil {
		return err
	}
	i := m.dataIndex(row)
	if i < 0 || i >= len(m.data) {
		return fmt.Errorf("row %d out of range", row)
	}
	m.data = append(m.data[:i], m.data[i+1:]...)
	return nil
}

func (m *memStore) AppendRow(ctx context.Context, table string, values []interface{}) error {
	if err := m.checkTable(table); err != nil {
		return err
	}
	m.data = append(m.data, append([]interface{}{}, values...))
	return nil
}

func (m *memStore) RowFormulas(ctx context.Context, table string, row, cols int) ([]string, error) {
	if err := m.checkTable(table); err != nil {
		return nil, err
	}
	out := make([]string, cols)
	for c := 1; c <= cols; c++ {
		out[c-1] = m.formulas[[2]int{row, c}]
	}
	return out, nil
}

func (m *memStore) RowHyperlinks(ctx context.Context, table string, row, cols int) ([]string, error) {
	if err := m.checkTable(table); err != nil {
		return nil, err
	}
	out := make([]string, cols)
	for c := 1; c <= cols; c++ {
		out[c-1] = m.links[[2]int{row, c}]
	}
	return out, nil
}

func (m *memStore) WriteHyperlink(ctx context.Context, table string, row, col int, text, url string) error {
	if err := m.checkTable(table); err != nil {
		return err
	}
	m.linkWrites = append(m.linkWrites, WriteHyperlinkCall{Table: table, Row: row, Col: col, Text: text, URL: url})
	i := m.dataIndex(row)
	if i >= 0 && i < len(m.data) && col-1 < len(m.data[i]) {
		m.data[i][col-1] = text
	}
	m.links[[2]int{row, col}] = url
	return nil
}

func (m *memStore) HasTable(ctx context.Context, table string) (bool, error) {
	return table == m.name, nil
}

func (m *memStore) Flush(ctx context.Context) error {
	m.flushCount++
	return nil
}
