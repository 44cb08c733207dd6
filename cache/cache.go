package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the longest query QueryKeyer passes through verbatim;
// longer queries are keyed by their hash instead.
const MaxKeyLength = 4096

// Sentinel errors for cache operations.
var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores serialized query results under their keys.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get never errors; it returns (nil, false) on miss AND on
//   transport failure, which callers treat identically.
// - Set is best-effort at call sites: callers log failures, never abort.
type Cache interface {
	// Get returns the value stored under key, or (nil, false).
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. A non-positive ttl stores
	// nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Idempotent.
	Delete(ctx context.Context, key string) error

	// Flush removes every entry owned by this cache.
	Flush(ctx context.Context) error
}

// Pinger is implemented by caches with a remote transport.
type Pinger interface {
	// Ping verifies the transport is reachable.
	Ping(ctx context.Context) error
}

// ValidateKey rejects empty, blank, and oversized keys.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}
