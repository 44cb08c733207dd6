// Package cache provides the key-value result cache for query payloads.
//
// It provides a Cache interface with in-memory and Valkey (Redis wire)
// implementations, verbatim query-string keying, and TTL policies.
// Transport failures are indistinguishable from misses: Get never errors.
package cache
