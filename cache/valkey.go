package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/querycache/observe"
)

// ValkeyConfig configures the Valkey-backed cache.
type ValkeyConfig struct {
	// Addr is the host:port of the Valkey/Redis endpoint.
	Addr string

	// AuthToken is the AUTH password, if the endpoint requires one.
	AuthToken string

	// NoTLS disables the encrypted transport. The transport is TLS by
	// default; ElastiCache serverless requires it.
	NoTLS bool

	// InsecureSkipVerify disables hostname verification on the TLS
	// handshake. ElastiCache endpoints behind CNAMEs commonly need this.
	InsecureSkipVerify bool

	// DialTimeout bounds connection establishment.
	// Default: 10 seconds
	DialTimeout time.Duration

	// OpTimeout bounds individual read/write operations.
	// Default: 10 seconds
	OpTimeout time.Duration
}

// ValkeyCache is a Cache backed by a Valkey (Redis wire) endpoint over an
// encrypted transport. It owns its client lifecycle, independent of the
// database connection pool.
type ValkeyCache struct {
	client *redis.Client
	logger observe.Logger
}

// NewValkeyCache creates a Valkey-backed cache. The transport is not
// dialed eagerly; call Ping to verify reachability.
func NewValkeyCache(config ValkeyConfig, logger observe.Logger) (*ValkeyCache, error) {
	if config.Addr == "" {
		return nil, fmt.Errorf("cache: valkey addr is required")
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 10 * time.Second
	}
	if config.OpTimeout <= 0 {
		config.OpTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	opts := &redis.Options{
		Addr:         config.Addr,
		Password:     config.AuthToken,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.OpTimeout,
		WriteTimeout: config.OpTimeout,
	}
	if !config.NoTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: config.InsecureSkipVerify,
		}
	}

	return &ValkeyCache{
		client: redis.NewClient(opts),
		logger: logger.With(observe.F("component", "cache.valkey")),
	}, nil
}

// Get retrieves a cached value. A transport failure is reported as a miss;
// the failure is logged, never surfaced.
func (c *ValkeyCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn(ctx, "cache get failed, treating as miss", observe.F("error", err.Error()))
		}
		return nil, false
	}
	return value, true
}

// Set stores a value with the given TTL. TTL=0 means no caching.
func (c *ValkeyCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}

// Delete removes a cached value. Idempotent - no error on miss.
func (c *ValkeyCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache: delete %q: %w", key, err)
	}
	return nil
}

// Flush removes every entry in the selected database.
func (c *ValkeyCache) Flush(ctx context.Context) error {
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("cache: flush: %w", err)
	}
	return nil
}

// Ping verifies the transport is reachable.
func (c *ValkeyCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *ValkeyCache) Close() error {
	return c.client.Close()
}

// Ensure ValkeyCache implements Cache and Pinger
var (
	_ Cache  = (*ValkeyCache)(nil)
	_ Pinger = (*ValkeyCache)(nil)
)
