package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Keyer derives cache keys from query strings.
//
// Contract:
// - Determinism: same query must produce same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives the cache key for a query.
	Key(query string) (string, error)
}

// QueryKeyer uses the literal query string as the key, with no
// normalization. Queries differing only in whitespace or case are
// distinct cache entries. Queries longer than MaxKeyLength fall back
// to the hashed form so they still cache.
type QueryKeyer struct{}

// NewQueryKeyer creates a verbatim keyer.
func NewQueryKeyer() *QueryKeyer {
	return &QueryKeyer{}
}

// Key returns the query unchanged, or its hashed form when the query
// exceeds MaxKeyLength.
func (k *QueryKeyer) Key(query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrInvalidKey
	}
	if len(query) > MaxKeyLength {
		return hashKey("q", query), nil
	}
	return query, nil
}

// HashKeyer derives SHA-256 based keys for backends with key-size limits.
type HashKeyer struct {
	// Prefix namespaces the keys. Default: "q".
	Prefix string
}

// NewHashKeyer creates a hashing keyer.
func NewHashKeyer(prefix string) *HashKeyer {
	if prefix == "" {
		prefix = "q"
	}
	return &HashKeyer{Prefix: prefix}
}

// Key returns <prefix>:<hex of SHA-256(query)>.
func (k *HashKeyer) Key(query string) (string, error) {
	if query == "" {
		return "", ErrInvalidKey
	}
	return hashKey(k.Prefix, query), nil
}

func hashKey(prefix, query string) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Ensure keyers implement Keyer
var (
	_ Keyer = (*QueryKeyer)(nil)
	_ Keyer = (*HashKeyer)(nil)
)
