package credential

import "context"

// Provider issues backend authentication tokens.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use; the pool
//   issues tokens from concurrent growth operations.
// - Caching: implementations must not cache tokens. Every call returns a
//   freshly issued token.
// - Errors: failures wrap ErrPermissionDenied or ErrUnreachable so callers
//   can discriminate with errors.Is.
type Provider interface {
	// Issue generates a fresh token for the given principal.
	Issue(ctx context.Context, principal string) (Token, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, principal string) (Token, error)

// Issue calls f.
func (f ProviderFunc) Issue(ctx context.Context, principal string) (Token, error) {
	return f(ctx, principal)
}

// Ensure ProviderFunc implements Provider
var _ Provider = (ProviderFunc)(nil)
