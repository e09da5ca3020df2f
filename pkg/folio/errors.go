package folio

import "errors"

var (
	// ErrNoActiveStore is returned when a query needs the process-wide
	// default store and none has been set with SetDefault.
	ErrNoActiveStore = errors.New("folio: no active store")

	// ErrTableNotFound is returned by Store implementations when the named
	// table cannot be resolved. The query builder degrades read operations
	// to empty results and turns write operations into no-ops when it
	// observes this error.
	ErrTableNotFound = errors.New("folio: table not found")
)
