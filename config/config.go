package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jonwraymond/querycache/secret"
)

// Built-in query texts selectable via QueryType.
const (
	// SimpleQuery is a plain table scan.
	SimpleQuery = "SELECT * FROM users1;"

	// ComplexQuery joins users against their recent orders with
	// aggregation, the expensive shape caching pays off on.
	ComplexQuery = "SELECT u.user_id, u.name, u.email, u.department, u.role, u.last_login, " +
		"COUNT(DISTINCT o.order_date) as active_days, COUNT(o.order_id) as recent_orders, " +
		"COALESCE(SUM(o.order_amount), 0) as recent_spending, " +
		"COALESCE(AVG(o.order_amount), 0) as avg_order_size, " +
		"STRING_AGG(DISTINCT o.order_type, ', ') as order_types " +
		"FROM users u LEFT JOIN orders o ON u.user_id = o.user_id " +
		"AND o.order_date >= CURRENT_DATE - INTERVAL '30 days' " +
		"WHERE u.user_id = 1 " +
		"GROUP BY u.user_id, u.name, u.email, u.department, u.role, u.last_login;"
)

// Sentinel errors for configuration validation.
var (
	ErrNoEndpoint      = errors.New("config: cluster endpoint is required")
	ErrNoCacheEndpoint = errors.New("config: cache endpoint is required")
	ErrBadQueryType    = errors.New("config: query type must be simple or complex")
	ErrBadPoolBounds   = errors.New("config: pool bounds are invalid")
)

// Config is the full runtime configuration.
type Config struct {
	// ClusterEndpoint is the Aurora DSQL cluster endpoint hostname.
	ClusterEndpoint string `yaml:"cluster_endpoint"`

	// Region is the AWS region tokens are signed for.
	// Default: us-east-1
	Region string `yaml:"region"`

	// CacheEndpoint is the Valkey host:port.
	CacheEndpoint string `yaml:"cache_endpoint"`

	// CacheAuthToken is the Valkey AUTH token; may be a secretref.
	CacheAuthToken string `yaml:"cache_auth_token"`

	// CacheTLS enables TLS on the cache transport. ElastiCache serverless
	// only accepts encrypted connections.
	// Default: true
	CacheTLS bool `yaml:"cache_tls"`

	// CacheTTL is how long results stay cached.
	// Default: 30s
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// PoolMin is the eagerly established connection count.
	// Default: 5
	PoolMin int `yaml:"pool_min"`

	// PoolMax is the connection ceiling.
	// Default: 30
	PoolMax int `yaml:"pool_max"`

	// PoolTimeout bounds one acquire.
	// Default: 30s
	PoolTimeout time.Duration `yaml:"pool_timeout"`

	// QueryType selects a built-in query: simple or complex.
	// Default: simple
	QueryType string `yaml:"query_type"`

	// QueryText overrides QueryType with a literal statement.
	QueryText string `yaml:"query_text"`

	// Iterations is the per-phase benchmark iteration count.
	// Default: 10
	Iterations int `yaml:"iterations"`
}

// Default returns the configuration with every default applied.
func Default() Config {
	return Config{
		Region:      "us-east-1",
		CacheTLS:    true,
		CacheTTL:    30 * time.Second,
		PoolMin:     5,
		PoolMax:     30,
		PoolTimeout: 30 * time.Second,
		QueryType:   "simple",
		Iterations:  10,
	}
}

// FromEnv builds a Config from the environment on top of the defaults.
// Duration variables are plain second counts.
func FromEnv() (Config, error) {
	c := Default()

	c.ClusterEndpoint = envString("DSQL_CLUSTER_ENDPOINT", c.ClusterEndpoint)
	c.Region = envString("AWS_REGION", c.Region)
	c.CacheEndpoint = envString("VALKEY_ENDPOINT", c.CacheEndpoint)
	c.CacheAuthToken = envString("VALKEY_AUTH_TOKEN", c.CacheAuthToken)
	c.QueryType = envString("QUERY_TYPE", c.QueryType)
	c.QueryText = envString("QUERY_TEXT", c.QueryText)

	var err error
	if c.CacheTLS, err = envBool("VALKEY_TLS", c.CacheTLS); err != nil {
		return Config{}, err
	}
	if c.CacheTTL, err = envSeconds("VALKEY_TTL", c.CacheTTL); err != nil {
		return Config{}, err
	}
	if c.PoolMin, err = envInt("DSQL_POOL_MIN", c.PoolMin); err != nil {
		return Config{}, err
	}
	if c.PoolMax, err = envInt("DSQL_POOL_MAX", c.PoolMax); err != nil {
		return Config{}, err
	}
	if c.PoolTimeout, err = envSeconds("DSQL_POOL_TIMEOUT", c.PoolTimeout); err != nil {
		return Config{}, err
	}
	if c.Iterations, err = envInt("BENCH_ITERATIONS", c.Iterations); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Query returns the statement to benchmark: QueryText when set,
// otherwise the built-in selected by QueryType.
func (c Config) Query() string {
	if c.QueryText != "" {
		return c.QueryText
	}
	if c.QueryType == "complex" {
		return ComplexQuery
	}
	return SimpleQuery
}

// Resolve passes every string field through the secret resolver.
func (c *Config) Resolve(ctx context.Context, r *secret.Resolver) error {
	for _, f := range []*string{
		&c.ClusterEndpoint, &c.Region, &c.CacheEndpoint, &c.CacheAuthToken, &c.QueryText,
	} {
		v, err := r.ResolveValue(ctx, *f)
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

// Validate checks the configuration is runnable.
func (c Config) Validate() error {
	if c.ClusterEndpoint == "" {
		return ErrNoEndpoint
	}
	if c.CacheEndpoint == "" {
		return ErrNoCacheEndpoint
	}
	if c.QueryText == "" && c.QueryType != "simple" && c.QueryType != "complex" {
		return fmt.Errorf("%w: %q", ErrBadQueryType, c.QueryType)
	}
	if c.PoolMin < 0 || c.PoolMax <= 0 || c.PoolMin > c.PoolMax {
		return fmt.Errorf("%w: min=%d max=%d", ErrBadPoolBounds, c.PoolMin, c.PoolMax)
	}
	if c.PoolTimeout <= 0 {
		return fmt.Errorf("config: pool timeout must be positive, got %s", c.PoolTimeout)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be positive, got %d", c.Iterations)
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envSeconds(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return time.Duration(n) * time.Second, nil
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}
