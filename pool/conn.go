package pool

import (
	"context"
	"time"

	"github.com/jonwraymond/querycache/credential"
)

// Conn is a live backend connection handle.
//
// Contract:
// - Ownership: a Conn checked out of the pool is exclusively owned by the
//   caller until released; it is never shared across concurrent calls.
// - Errors: Query failures are backend failures; the handle may still be
//   reusable and the pool decides its fate on release.
type Conn interface {
	// Query executes the literal query string and returns the serialized
	// result set plus the measured execution time.
	Query(ctx context.Context, query string) (payload []byte, elapsed time.Duration, err error)

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Close tears down the connection.
	Close(ctx context.Context) error
}

// Dialer establishes backend connections authenticated by a token.
//
// Contract:
// - Concurrency: must be safe for concurrent use; the pool dials from
//   concurrent growth operations.
type Dialer interface {
	// Dial opens a connection using token as the credential.
	Dial(ctx context.Context, token credential.Token) (Conn, error)
}

// PooledConn is a pool-owned connection plus its auth token bookkeeping.
type PooledConn struct {
	conn      Conn
	token     credential.Token
	createdAt time.Time
}

// Query executes the query on the underlying connection.
func (pc *PooledConn) Query(ctx context.Context, query string) ([]byte, time.Duration, error) {
	return pc.conn.Query(ctx, query)
}

// Ping verifies the underlying connection.
func (pc *PooledConn) Ping(ctx context.Context) error {
	return pc.conn.Ping(ctx)
}

// Token returns the token the connection authenticated with.
func (pc *PooledConn) Token() credential.Token {
	return pc.token
}

// CreatedAt returns when the connection was established.
func (pc *PooledConn) CreatedAt() time.Time {
	return pc.createdAt
}

func (pc *PooledConn) close() {
	_ = pc.conn.Close(context.Background())
}
