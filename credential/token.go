package credential

import "time"

// Token is a short-lived backend authentication token.
//
// A token is owned by whichever connection requested it. Once expired it
// must be regenerated, never reused.
type Token struct {
	// Value is the opaque token material, used as the connection password.
	Value string

	// IssuedAt is when the token was generated.
	IssuedAt time.Time

	// TTL is the token's lifetime from IssuedAt.
	TTL time.Duration
}

// ExpiresAt returns the instant the token stops being valid.
func (t Token) ExpiresAt() time.Time {
	return t.IssuedAt.Add(t.TTL)
}

// Expired reports whether the token is no longer valid at now.
func (t Token) Expired(now time.Time) bool {
	if t.IssuedAt.IsZero() {
		return true
	}
	return !now.Before(t.ExpiresAt())
}

// ExpiringWithin reports whether the token expires within margin of now.
// An already-expired token is always expiring.
func (t Token) ExpiringWithin(now time.Time, margin time.Duration) bool {
	if t.Expired(now) {
		return true
	}
	return !now.Add(margin).Before(t.ExpiresAt())
}
