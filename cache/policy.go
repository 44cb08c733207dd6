package cache

import "time"

// Policy decides whether and how long results stay cached.
type Policy struct {
	// DefaultTTL applies when the caller does not override. Zero
	// disables caching.
	DefaultTTL time.Duration

	// MaxTTL caps override TTLs. Zero means uncapped.
	MaxTTL time.Duration
}

// DefaultPolicy caches for 30 seconds, capped at an hour.
func DefaultPolicy() Policy {
	return Policy{DefaultTTL: 30 * time.Second, MaxTTL: time.Hour}
}

// NoCachePolicy disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache reports whether the policy caches at all.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL resolves the TTL for one write: the override when
// positive, otherwise the default, clamped to MaxTTL.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
