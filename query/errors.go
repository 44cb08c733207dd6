package query

import (
	"errors"
	"fmt"
)

// Sentinel errors for orchestrated queries.
var (
	// ErrEmptyQuery is returned when the query string is empty.
	ErrEmptyQuery = errors.New("query: query is empty")

	// ErrNilPool is returned when the orchestrator has no pool.
	ErrNilPool = errors.New("query: pool is nil")

	// ErrNilCache is returned when the orchestrator has no cache.
	ErrNilCache = errors.New("query: cache is nil")
)

// BackendError reports a failed backend execution. The connection is
// released before the error surfaces; the cache is never written.
type BackendError struct {
	Query string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("query: backend execution failed: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
