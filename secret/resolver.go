package secret

import (
	"context"
	"fmt"
	"strings"
)

const refPrefix = "secretref:"

// Resolver resolves configuration values through registered providers.
// The zero-provider resolver still performs environment expansion.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver over the given providers.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// ResolveValue expands ${VAR} references strictly, then resolves a
// secretref indirection if the expanded value is one. Empty resolved
// secrets are an error; an empty plain value is not.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}

	name, ref, ok := ParseRef(expanded)
	if !ok {
		return expanded, nil
	}

	p, found := r.providers[name]
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	resolved, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return "", fmt.Errorf("%w: provider %q ref %q", ErrEmptySecret, name, ref)
	}
	return resolved, nil
}

// ParseRef splits a secretref:<provider>:<ref> value. ok is false for
// plain values and malformed references.
func ParseRef(value string) (provider, ref string, ok bool) {
	if !strings.HasPrefix(value, refPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(value, refPrefix)
	i := strings.Index(rest, ":")
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
