// Package query orchestrates cache-aside query execution.
//
// Each call probes the cache first. A hit returns the cached payload
// without touching the connection pool or credentials. A miss acquires a
// pooled connection, executes the query, releases the connection in all
// cases, and stores the result with a TTL best-effort. Cache transport
// failures degrade to misses and are never visible to callers.
package query
