// Package folio provides a database-like, fluent query builder over tabular
// stores — primarily Google Sheets, with experimental relational backends.
// Rows are represented as column-heading-keyed maps instead of positional
// arrays, and carry transient positional metadata used only for write-back.
package folio

import (
	"fmt"
	"io"
)

// DB is a handle to one tabular store. It may be shared across any number
// of queries; the queries own their caches, the DB owns nothing but the
// store reference.
type DB struct {
	store Store
}

// Config holds the Google Sheets configuration for New.
type Config struct {
	SpreadsheetID string
	Credentials   []byte // Service account JSON
}

// New creates a DB backed by a Google Sheets spreadsheet.
func New(cfg Config) (*DB, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}

	if len(cfg.Credentials) == 0 {
		return nil, fmt.Errorf("credentials are required")
	}

	store, err := newSheetsStore(cfg.Credentials, cfg.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &DB{store: store}, nil
}

// NewWithStore creates a DB over any Store implementation.
func NewWithStore(store Store) *DB {
	return &DB{store: store}
}

// Table returns a Table handle for the named sheet or table.
func (db *DB) Table(name string) *Table {
	return &Table{db: db, name: name}
}

// Query starts an unconfigured query against this store. Call From before
// any row-materializing operation.
func (db *DB) Query() *Query {
	return newQuery(db)
}

// Close releases any resources held by the underlying store.
func (db *DB) Close() error {
	if c, ok := db.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Table represents a sheet (table) within a store.
type Table struct {
	db   *DB
	name string
}

// Query builds a query targeting this table.
func (t *Table) Query() *Query {
	return newQuery(t.db).From(t.name)
}

var defaultDB *DB

// SetDefault installs the process-wide default store handle used by queries
// built without an explicit DB.
func SetDefault(db *DB) {
	defaultDB = db
}

// Default returns the process-wide default store handle, or ErrNoActiveStore
// when none has been set.
func Default() (*DB, error) {
	if defaultDB == nil {
		return nil, ErrNoActiveStore
	}
	return defaultDB, nil
}

// From starts a query against the default store. The default is resolved on
// the first operation; every operation fails with ErrNoActiveStore until one
// has been set.
func From(table string) *Query {
	return newQuery(nil).From(table)
}
