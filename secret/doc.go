// Package secret resolves sensitive configuration values such as cache
// AUTH tokens. Plain values pass through strict environment expansion;
// values of the form "secretref:<provider>:<ref>" are resolved by a
// registered provider. Resolved values are never logged.
package secret
