package folio

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (or creates) an embedded SQLite database and wraps it in
// a SQLStore. Use ":memory:" for a throwaway in-memory store; the
// connection pool is pinned to one connection so the in-memory database is
// shared across calls.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return NewSQLStore(db, SQLite), nil
}
