package folio

import (
	"context"
	"fmt"
)

// Store is the capability surface the query builder needs from a tabular
// backend. Row and column numbers are 1-based and use the same addressing
// the builder records in row metadata: implementations must resolve the row
// numbers they hand out through ReadAll enumeration when they are handed
// back through WriteRow, DeleteRow, and the formula/hyperlink calls.
type Store interface {
	// ReadAll returns the full used range of the table in one call, heading
	// rows included.
	ReadAll(ctx context.Context, table string) ([][]interface{}, error)

	// ReadRows returns count rows starting at the given 1-based row,
	// spanning column 1 through the table's last used column.
	ReadRows(ctx context.Context, table string, start, count int) ([][]interface{}, error)

	// WriteRow overwrites the row's range with values in a single call.
	WriteRow(ctx context.Context, table string, row int, values []interface{}) error

	// DeleteRow removes the row, shifting subsequent rows up by one.
	DeleteRow(ctx context.Context, table string, row int) error

	// AppendRow adds values as a new row at the end of the table.
	AppendRow(ctx context.Context, table string, values []interface{}) error

	// RowFormulas returns, per column position, the formula text of the
	// cell, or "" where the cell holds no formula.
	RowFormulas(ctx context.Context, table string, row, cols int) ([]string, error)

	// RowHyperlinks returns, per column position, the hyperlink URL carried
	// by the cell, or "" where the cell carries none.
	RowHyperlinks(ctx context.Context, table string, row, cols int) ([]string, error)

	// WriteHyperlink rebuilds a single cell as rich text: the given plain
	// text with the URL attached. Overwrites whatever the bulk value write
	// left in the cell.
	WriteHyperlink(ctx context.Context, table string, row, col int, text, url string) error

	// HasTable reports whether the named table can be resolved.
	HasTable(ctx context.Context, table string) (bool, error)

	// Flush forces any buffered writes through so that subsequent reads
	// observe them.
	Flush(ctx context.Context) error
}

// Cell is an addressable reference to a single cell, as returned by
// Query.Cells.
type Cell struct {
	Table string
	Row   int // 1-based
	Col   int // 1-based
	Value interface{}
}

// A1 returns the cell's position in A1 notation, without the table prefix.
func (c Cell) A1() string {
	return fmt.Sprintf("%s%d", columnIndexToLetter(c.Col-1), c.Row)
}
