// Package credential issues short-lived authentication tokens for backend
// database connections.
//
// Providers never cache tokens; reuse policy belongs to the caller (the
// connection pool). Every Issue call produces a fresh token with an expiry.
package credential
