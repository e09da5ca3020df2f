package folio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Dialect selects the engine-specific pieces of SQL the relational store
// needs: identifier quoting, parameter placeholders, and the column lookup.
type Dialect int

const (
	SQLite Dialect = iota
	PostgreSQL
	MySQL
)

// firstDataRow is the row number assigned to the first data row of a
// managed table, matching the numbers the query builder records in row
// metadata with the default heading row.
const firstDataRow = 3

// posColumn holds each row's absolute row number. Appends extend the
// sequence and deletions compact it, giving managed tables the same
// shift-up semantics a spreadsheet has.
const posColumn = "_folio_pos"

// SQLStore is an experimental Store over database/sql. It owns the tables
// it manages: CreateTable provisions text columns plus the hidden position
// column, the column names serve as the heading row (fixed at row 1), and
// formulas and hyperlinks — which have no relational counterpart — degrade
// to empties. Every statement is parameterized; identifiers pass through
// dialect quoting.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an already-open database handle.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) quote(ident string) string {
	switch s.dialect {
	case MySQL:
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	default:
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
}

func (s *SQLStore) placeholder(n int) string {
	if s.dialect == PostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) placeholders(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}

// CreateTable provisions a managed table with the given headings as text
// columns. An existing table is left untouched.
func (s *SQLStore) CreateTable(ctx context.Context, table string, headings []string) error {
	cols := make([]string, 0, len(headings)+1)
	cols = append(cols, s.quote(posColumn)+" BIGINT NOT NULL")
	for _, h := range headings {
		cols = append(cols, s.quote(h)+" TEXT")
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		s.quote(table), strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// columns returns the table's data columns in definition order, excluding
// the position column. A table with no columns is a missing table.
func (s *SQLStore) columns(ctx context.Context, table string) ([]string, error) {
	var rows *sql.Rows
	var err error

	switch s.dialect {
	case SQLite:
		rows, err = s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", s.quote(table)))
	case PostgreSQL:
		rows, err = s.db.QueryContext(ctx,
			`SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position`,
			table)
	case MySQL:
		rows, err = s.db.QueryContext(ctx,
			`SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`,
			table)
	default:
		return nil, fmt.Errorf("unsupported dialect %d", s.dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if s.dialect == SQLite {
			var cid int
			var typ string
			var notNull int
			var dflt sql.NullString
			var pk int
			if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
				return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
			}
		} else {
			if err := rows.Scan(&name); err != nil {
				return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
			}
		}
		if name != posColumn {
			cols = append(cols, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return nil, ErrTableNotFound
	}
	return cols, nil
}

func (s *SQLStore) HasTable(ctx context.Context, table string) (bool, error) {
	_, err := s.columns(ctx, table)
	if errors.Is(err, ErrTableNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) ReadAll(ctx context.Context, table string) ([][]interface{}, error) {
	cols, err := s.columns(ctx, table)
	if err != nil {
		return nil, err
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = s.quote(c)
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "), s.quote(table), s.quote(posColumn))

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	defer rows.Close()

	heading := make([]interface{}, len(cols))
	for i, c := range cols {
		heading[i] = c
	}
	out := [][]interface{}{heading}

	for rows.Next() {
		values := make([]interface{}, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", table, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func (s *SQLStore) ReadRows(ctx context.Context, table string, start, count int) ([][]interface{}, error) {
	all, err := s.ReadAll(ctx, table)
	if err != nil {
		return nil, err
	}
	if start < 1 {
		start = 1
	}
	if start > len(all) || count < 1 {
		return nil, nil
	}
	end := start - 1 + count
	if end > len(all) {
		end = len(all)
	}
	return all[start-1 : end], nil
}

func (s *SQLStore) WriteRow(ctx context.Context, table string, row int, values []interface{}) error {
	cols, err := s.columns(ctx, table)
	if err != nil {
		return err
	}
	if len(values) > len(cols) {
		values = values[:len(cols)]
	}

	sets := make([]string, len(values))
	args := make([]interface{}, 0, len(values)+1)
	for i, v := range values {
		sets[i] = fmt.Sprintf("%s = %s", s.quote(cols[i]), s.placeholder(i+1))
		args = append(args, v)
	}
	args = append(args, row)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		s.quote(table), strings.Join(sets, ", "), s.quote(posColumn), s.placeholder(len(values)+1))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update row %d of %s: %w", row, table, err)
	}
	return nil
}

func (s *SQLStore) DeleteRow(ctx context.Context, table string, row int) error {
	if _, err := s.columns(ctx, table); err != nil {
		return err
	}

	del := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		s.quote(table), s.quote(posColumn), s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, del, row); err != nil {
		return fmt.Errorf("failed to delete row %d of %s: %w", row, table, err)
	}

	// Later rows shift up by one, same as a spreadsheet row deletion.
	shift := fmt.Sprintf("UPDATE %s SET %s = %s - 1 WHERE %s > %s",
		s.quote(table), s.quote(posColumn), s.quote(posColumn), s.quote(posColumn), s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, shift, row); err != nil {
		return fmt.Errorf("failed to shift rows of %s: %w", table, err)
	}
	return nil
}

func (s *SQLStore) AppendRow(ctx context.Context, table string, values []interface{}) error {
	cols, err := s.columns(ctx, table)
	if err != nil {
		return err
	}
	if len(values) > len(cols) {
		values = values[:len(cols)]
	}

	var next int
	seq := fmt.Sprintf("SELECT COALESCE(MAX(%s), %d) + 1 FROM %s",
		s.quote(posColumn), firstDataRow-1, s.quote(table))
	if err := s.db.QueryRowContext(ctx, seq).Scan(&next); err != nil {
		return fmt.Errorf("failed to compute next row of %s: %w", table, err)
	}

	names := make([]string, 0, len(values)+1)
	names = append(names, s.quote(posColumn))
	args := make([]interface{}, 0, len(values)+1)
	args = append(args, next)
	for i, v := range values {
		names = append(names, s.quote(cols[i]))
		args = append(args, v)
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.quote(table), strings.Join(names, ", "), s.placeholders(len(args)))
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// RowFormulas degrades to empties: relational cells hold no formulas.
func (s *SQLStore) RowFormulas(ctx context.Context, table string, row, cols int) ([]string, error) {
	return make([]string, cols), nil
}

// RowHyperlinks degrades to empties: relational cells carry no hyperlinks.
func (s *SQLStore) RowHyperlinks(ctx context.Context, table string, row, cols int) ([]string, error) {
	return make([]string, cols), nil
}

// WriteHyperlink is a no-op for relational backends.
func (s *SQLStore) WriteHyperlink(ctx context.Context, table string, row, col int, text, url string) error {
	return nil
}

// Flush is a no-op: database/sql writes are applied when Exec returns.
func (s *SQLStore) Flush(ctx context.Context) error {
	return nil
}
