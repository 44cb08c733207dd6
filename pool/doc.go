// Package pool manages a bounded set of backend database connections.
//
// The pool eagerly establishes its minimum size at construction (the
// warm-up cost a cold benchmark phase pays), grows lazily to its maximum,
// and hands each connection to exactly one caller at a time. Tokens are
// refreshed just in time: a connection whose token is expired or inside
// the refresh margin is discarded at handout and replaced with a freshly
// dialed connection carrying a fresh token. Idle connections are never
// refreshed speculatively.
package pool
