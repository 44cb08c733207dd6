package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for secret resolution.
var (
	ErrUnknownProvider = errors.New("secret: provider not registered")
	ErrEmptySecret     = errors.New("secret: resolved value is empty")
)

// Provider resolves a secret by reference.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Implementations must never log resolved values.
type Provider interface {
	// Name is the provider identifier used in secretref values.
	Name() string

	// Resolve returns the secret for ref.
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resolves secrets from environment variables, addressed as
// secretref:env:<VAR>.
type EnvProvider struct{}

func (EnvProvider) Name() string { return "env" }

func (EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("secret: environment variable %s not set", ref)
	}
	return v, nil
}

// FileProvider resolves secrets from files, addressed as
// secretref:file:<path>. Trailing whitespace is trimmed, matching the
// usual mounted-secret layout.
type FileProvider struct{}

func (FileProvider) Name() string { return "file" }

func (FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", ref, err)
	}
	return strings.TrimRight(string(data), " \t\r\n"), nil
}

var (
	_ Provider = EnvProvider{}
	_ Provider = FileProvider{}
)
