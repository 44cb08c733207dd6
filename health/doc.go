// Package health runs preflight checks against the benchmark's
// dependencies: the cache transport and the connection pool. The CLI
// refuses to start a run when the aggregate status is unhealthy.
package health
