package folio

import (
	"context"
	"errors"
	"fmt"
)

// cacheState makes the lazy caches explicit: a table that was fetched and
// turned out to hold no data rows is cachePopulated with an empty slice,
// and is not refetched on the next read.
type cacheState int

const (
	cacheEmpty cacheState = iota
	cachePopulated
)

// Query accumulates configuration through chained calls and lazily
// materializes matching rows on the first read, caching them until a write
// invalidates the cache or ClearCache is called. A Query is not safe for
// concurrent use; it assumes single-writer, synchronous-per-call usage.
type Query struct {
	db         *DB
	table      string
	headingRow int
	selected   []string
	pred       func(Row) bool

	headState cacheState
	headings  []string
	rowState  cacheState
	rows      []Row
}

func newQuery(db *DB) *Query {
	return &Query{db: db, headingRow: 1}
}

// Select restricts the projection advertised by Headings, Cells, and URLs.
// It does not change which rows are fetched, nor the keys of materialized
// rows.
func (q *Query) Select(names ...string) *Query {
	q.selected = names
	return q
}

// From sets the target table. It must be called before any row-materializing
// operation. Calling it after the cache is populated does not invalidate the
// cache; call ClearCache to retarget a query that has already read rows.
func (q *Query) From(table string) *Query {
	q.table = table
	return q
}

// HeadingRow sets the 1-based row holding the column headings. Default 1.
func (q *Query) HeadingRow(i int) *Query {
	if i > 0 {
		q.headingRow = i
	}
	return q
}

// Where installs a predicate over materialized rows. Multiple calls
// AND-combine. Without one, every row matches.
func (q *Query) Where(pred func(Row) bool) *Query {
	if pred == nil {
		return q
	}
	if prev := q.pred; prev != nil {
		q.pred = func(r Row) bool { return prev(r) && pred(r) }
	} else {
		q.pred = pred
	}
	return q
}

// WhereColumn installs a predicate comparing one column against a value
// using =, ==, !=, >, >=, <, <=, contains, or like.
func (q *Query) WhereColumn(column, operator string, value interface{}) *Query {
	return q.Where(func(r Row) bool {
		return matchesOperator(r[column], operator, value)
	})
}

// store resolves the query's store handle, falling back to the process-wide
// default.
func (q *Query) store() (Store, error) {
	if q.db == nil {
		db, err := Default()
		if err != nil {
			return nil, err
		}
		q.db = db
	}
	return q.db.store, nil
}

// ensureHeadings populates the heading cache: it reads rows 1 through the
// heading row in one call and keeps the row at the heading index. A table
// that cannot be resolved degrades to empty headings without caching, so a
// table created later is still picked up.
func (q *Query) ensureHeadings(ctx context.Context) error {
	if q.headState == cachePopulated {
		return nil
	}

	st, err := q.store()
	if err != nil {
		return err
	}

	rows, err := st.ReadRows(ctx, q.table, 1, q.headingRow)
	if errors.Is(err, ErrTableNotFound) {
		q.headings = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read heading row of %s: %w", q.table, err)
	}

	var cells []interface{}
	if len(rows) >= q.headingRow {
		cells = rows[q.headingRow-1]
	}
	headings := make([]string, len(cells))
	for i, c := range cells {
		headings[i] = fmt.Sprintf("%v", c)
	}
	q.headings = headings
	q.headState = cachePopulated
	return nil
}

// ensureRows is the single gate every read path goes through. It reads the
// table's full used range in one call, drops everything above and including
// the heading row, and zips each remaining row with the headings.
func (q *Query) ensureRows(ctx context.Context) error {
	if q.rowState == cachePopulated {
		return nil
	}

	if err := q.ensureHeadings(ctx); err != nil {
		return err
	}
	if q.headState != cachePopulated {
		q.rows = nil
		return nil
	}

	st, err := q.store()
	if err != nil {
		return err
	}

	all, err := st.ReadAll(ctx, q.table)
	if errors.Is(err, ErrTableNotFound) {
		q.rows = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read table %s: %w", q.table, err)
	}

	var data [][]interface{}
	if len(all) > q.headingRow {
		data = all[q.headingRow:]
	}
	rows := make([]Row, 0, len(data))
	for i, cells := range data {
		rows = append(rows, newRow(q.headings, cells, i+q.headingRow+2))
	}
	q.rows = rows
	q.rowState = cachePopulated
	return nil
}

// Headings returns the column headings, reading them on first use. It
// returns the Select projection when one is set, and an empty slice when
// the table cannot be resolved.
func (q *Query) Headings(ctx context.Context) ([]string, error) {
	if err := q.ensureHeadings(ctx); err != nil {
		return nil, err
	}
	if q.headState != cachePopulated {
		return nil, nil
	}
	if len(q.selected) == 0 {
		return q.headings, nil
	}
	return q.projection(), nil
}

// projection filters the selected names down to headings that exist,
// preserving the order they were selected in.
func (q *Query) projection() []string {
	known := make(map[string]bool, len(q.headings))
	for _, h := range q.headings {
		known[h] = true
	}
	out := make([]string, 0, len(q.selected))
	for _, name := range q.selected {
		if known[name] {
			out = append(out, name)
		}
	}
	return out
}

// Values returns every materialized data row, unfiltered. Rows share the
// underlying maps with the cache, which is what makes the in-place update
// idiom work.
func (q *Query) Values(ctx context.Context) ([]Row, error) {
	if err := q.ensureRows(ctx); err != nil {
		return nil, err
	}
	return q.rows, nil
}

// Rows returns the materialized rows matching the installed predicate.
// This is the primary read entry point; it has no side effects on the
// store.
func (q *Query) Rows(ctx context.Context) ([]Row, error) {
	if err := q.ensureRows(ctx); err != nil {
		return nil, err
	}
	return q.matched(), nil
}

func (q *Query) matched() []Row {
	if q.pred == nil {
		return q.rows
	}
	out := make([]Row, 0, len(q.rows))
	for _, r := range q.rows {
		if q.pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// UpdateRows applies fn to every matched row, in materialization order, and
// writes the results back. fn may mutate the row in place and return nil,
// or return a replacement row; a non-nil return wins. Columns whose
// original cell held a formula keep the formula regardless of what fn wrote
// there, and hyperlinks are re-attached to the new text in a second write
// pass. Rows lacking positional metadata are skipped silently. The cache is
// invalidated after the batch; a failure mid-batch leaves earlier rows
// written and later rows untouched.
func (q *Query) UpdateRows(ctx context.Context, fn func(Row) Row) error {
	if fn == nil {
		return fmt.Errorf("update function is required")
	}

	rows, err := q.Rows(ctx)
	if err != nil {
		return err
	}
	st, err := q.store()
	if err != nil {
		return err
	}

	for _, row := range rows {
		meta, ok := row.Meta()
		if !ok {
			continue
		}

		// Capture formulas and hyperlinks before mutation; the bulk value
		// write below would otherwise erase both.
		formulas, err := st.RowFormulas(ctx, q.table, meta.Row, meta.Cols)
		if err != nil {
			return fmt.Errorf("failed to read formulas for row %d: %w", meta.Row, err)
		}
		links, err := st.RowHyperlinks(ctx, q.table, meta.Row, meta.Cols)
		if err != nil {
			return fmt.Errorf("failed to read hyperlinks for row %d: %w", meta.Row, err)
		}

		next := row
		if replacement := fn(row); replacement != nil {
			next = replacement
		}
		values := next.values(q.headings)

		for i, f := range formulas {
			if f != "" && i < len(values) {
				values[i] = f
			}
		}

		if err := st.WriteRow(ctx, q.table, meta.Row, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", meta.Row, err)
		}

		for i, url := range links {
			if url == "" || i >= len(values) {
				continue
			}
			text := fmt.Sprintf("%v", values[i])
			if err := st.WriteHyperlink(ctx, q.table, meta.Row, i+1, text, url); err != nil {
				return fmt.Errorf("failed to restore hyperlink at row %d col %d: %w", meta.Row, i+1, err)
			}
		}
	}

	return q.ClearCache(ctx)
}

// DeleteRows deletes every matched row from the store, in the order
// returned by Rows. Each deletion shifts later rows up by one, so a running
// offset is subtracted from the row numbers recorded at materialization
// time; the recorded numbers themselves never change. Rows lacking
// positional metadata are skipped. The cache is invalidated after the
// batch.
func (q *Query) DeleteRows(ctx context.Context) error {
	rows, err := q.Rows(ctx)
	if err != nil {
		return err
	}
	st, err := q.store()
	if err != nil {
		return err
	}

	offset := 0
	for _, row := range rows {
		meta, ok := row.Meta()
		if !ok {
			continue
		}
		if err := st.DeleteRow(ctx, q.table, meta.Row-offset); err != nil {
			return fmt.Errorf("failed to delete row %d: %w", meta.Row, err)
		}
		offset++
	}

	return q.ClearCache(ctx)
}

// InsertRows appends the given rows to the end of the table. Nil rows are
// skipped. For each heading the candidate value passes through when truthy,
// an explicit false is preserved, and anything else becomes a blank.
// Inserting does not invalidate the cache: call ClearCache to observe the
// appended rows through the same query.
func (q *Query) InsertRows(ctx context.Context, rows ...Row) error {
	if err := q.ensureHeadings(ctx); err != nil {
		return err
	}
	if q.headState != cachePopulated {
		return nil
	}

	st, err := q.store()
	if err != nil {
		return err
	}

	for _, row := range rows {
		if row == nil {
			continue
		}
		values := make([]interface{}, len(q.headings))
		for i, h := range q.headings {
			v, ok := row[h]
			values[i] = insertValue(v, ok)
		}
		if err := st.AppendRow(ctx, q.table, values); err != nil {
			return fmt.Errorf("failed to append row to %s: %w", q.table, err)
		}
	}
	return nil
}

// ClearCache discards the cached rows and headings, forcing the next read
// to refetch, and flushes the store so that subsequent reads observe prior
// writes.
func (q *Query) ClearCache(ctx context.Context) error {
	q.rows = nil
	q.rowState = cacheEmpty
	q.headings = nil
	q.headState = cacheEmpty

	st, err := q.store()
	if err != nil {
		return err
	}
	return st.Flush(ctx)
}

// Cells returns, per matched row, a heading-keyed map of addressable cell
// references. It derives from the current caches without fetching: before
// the first materializing read it degrades to empty output.
func (q *Query) Cells(ctx context.Context) ([]map[string]Cell, error) {
	if q.rowState != cachePopulated || q.headState != cachePopulated {
		return nil, nil
	}

	headings := q.cellHeadings()
	cols := q.headingColumns()

	var out []map[string]Cell
	for _, row := range q.matched() {
		meta, ok := row.Meta()
		if !ok {
			continue
		}
		cells := make(map[string]Cell, len(headings))
		for _, h := range headings {
			col, ok := cols[h]
			if !ok {
				continue
			}
			cells[h] = Cell{Table: q.table, Row: meta.Row, Col: col, Value: row[h]}
		}
		out = append(out, cells)
	}
	return out, nil
}

// URLs returns, per matched row, a heading-keyed map of hyperlink URLs,
// omitting headings whose cell carries none. Like Cells it derives from the
// current caches and degrades to empty output before the first
// materializing read.
func (q *Query) URLs(ctx context.Context) ([]map[string]string, error) {
	if q.rowState != cachePopulated || q.headState != cachePopulated {
		return nil, nil
	}

	st, err := q.store()
	if err != nil {
		return nil, err
	}

	headings := q.cellHeadings()
	cols := q.headingColumns()

	var out []map[string]string
	for _, row := range q.matched() {
		meta, ok := row.Meta()
		if !ok {
			continue
		}
		links, err := st.RowHyperlinks(ctx, q.table, meta.Row, meta.Cols)
		if err != nil {
			return nil, fmt.Errorf("failed to read hyperlinks for row %d: %w", meta.Row, err)
		}
		urls := make(map[string]string)
		for _, h := range headings {
			col, ok := cols[h]
			if !ok || col > len(links) {
				continue
			}
			if u := links[col-1]; u != "" {
				urls[h] = u
			}
		}
		out = append(out, urls)
	}
	return out, nil
}

// cellHeadings is the heading set Cells and URLs advertise: the Select
// projection when one is set, the full heading row otherwise.
func (q *Query) cellHeadings() []string {
	if len(q.selected) > 0 {
		return q.projection()
	}
	return q.headings
}

// headingColumns maps each heading to its 1-based column. Duplicate
// headings resolve to the last position, matching row construction.
func (q *Query) headingColumns() map[string]int {
	cols := make(map[string]int, len(q.headings))
	for i, h := range q.headings {
		cols[h] = i + 1
	}
	return cols
}
