package credential

import "errors"

// Sentinel errors for credential issuance.
var (
	// ErrEmptyPrincipal is returned when Issue is called without a principal.
	ErrEmptyPrincipal = errors.New("credential: principal is empty")

	// ErrPermissionDenied is returned when the identity lacks permission
	// to obtain a token.
	ErrPermissionDenied = errors.New("credential: permission denied")

	// ErrUnreachable is returned when the identity service cannot be reached.
	ErrUnreachable = errors.New("credential: identity service unreachable")

	// ErrNoSigningKey is returned when a static provider has no key material.
	ErrNoSigningKey = errors.New("credential: signing key is empty")
)
