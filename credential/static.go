package credential

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaticConfig configures the static JWT provider.
type StaticConfig struct {
	// Key is the HMAC signing key.
	Key []byte

	// Issuer is written to the iss claim.
	// Default: "querycache"
	Issuer string

	// TokenTTL is the token lifetime.
	// Default: DefaultTokenTTL
	TokenTTL time.Duration
}

// StaticProvider issues HMAC-signed JWTs. It serves local backends and
// tests, where no cloud identity service is available.
type StaticProvider struct {
	config StaticConfig
}

// NewStaticProvider creates a static JWT provider.
func NewStaticProvider(config StaticConfig) (*StaticProvider, error) {
	if len(config.Key) == 0 {
		return nil, ErrNoSigningKey
	}
	if config.Issuer == "" {
		config.Issuer = "querycache"
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultTokenTTL
	}
	return &StaticProvider{config: config}, nil
}

// Issue signs a fresh HS256 token with principal as the subject.
func (p *StaticProvider) Issue(ctx context.Context, principal string) (Token, error) {
	if principal == "" {
		return Token{}, ErrEmptyPrincipal
	}
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}

	issuedAt := time.Now()
	claims := jwt.MapClaims{
		"iss": p.config.Issuer,
		"sub": principal,
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(p.config.TokenTTL).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.config.Key)
	if err != nil {
		return Token{}, fmt.Errorf("credential: sign token: %w", err)
	}

	return Token{
		Value:    signed,
		IssuedAt: issuedAt,
		TTL:      p.config.TokenTTL,
	}, nil
}

// Ensure StaticProvider implements Provider
var _ Provider = (*StaticProvider)(nil)
