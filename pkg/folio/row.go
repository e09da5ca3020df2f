package folio

// MetaKey is the reserved row key carrying positional metadata.
const MetaKey = "__meta"

// Meta is the transient positional metadata attached to every materialized
// row. It addresses write-back only: it is never persisted, and it is
// stripped before any value array is sent to the store.
type Meta struct {
	Row  int // 1-based physical row number in the store
	Cols int // column count at materialization time
}

// Row is one record, keyed by column heading, plus the reserved __meta
// entry. Values are whatever the store returned: text, number, boolean, or
// blank.
type Row map[string]interface{}

// Meta returns the row's positional metadata. ok is false for rows that
// were not materialized by a query's read path.
func (r Row) Meta() (Meta, bool) {
	m, ok := r[MetaKey].(Meta)
	return m, ok
}

// newRow zips headings with cell values by position and tags the result
// with metadata. Duplicate headings resolve last-write-wins. Missing cells
// become blanks.
func newRow(headings []string, cells []interface{}, physRow int) Row {
	row := make(Row, len(headings)+1)
	for i, h := range headings {
		if i < len(cells) {
			row[h] = cells[i]
		} else {
			row[h] = ""
		}
	}
	row[MetaKey] = Meta{Row: physRow, Cols: len(headings)}
	return row
}

// values flattens the row into heading order with metadata stripped.
// Headings the row has no value for become blanks.
func (r Row) values(headings []string) []interface{} {
	out := make([]interface{}, len(headings))
	for i, h := range headings {
		v, ok := r[h]
		if !ok || v == nil {
			out[i] = ""
			continue
		}
		out[i] = v
	}
	return out
}

// insertValue applies the insert coercion rule: truthy values pass through,
// an explicit false is preserved, everything else becomes a blank. Zero and
// the empty string coerce to blank while false does not; that asymmetry is
// part of the contract.
func insertValue(v interface{}, ok bool) interface{} {
	if !ok {
		return ""
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	if truthy(v) {
		return v
	}
	return ""
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
