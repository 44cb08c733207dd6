package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/querycache/secret"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Region != "us-east-1" {
		t.Errorf("Region = %q", c.Region)
	}
	if c.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %s", c.CacheTTL)
	}
	if c.PoolMin != 5 || c.PoolMax != 30 {
		t.Errorf("pool bounds = %d/%d", c.PoolMin, c.PoolMax)
	}
	if c.PoolTimeout != 30*time.Second {
		t.Errorf("PoolTimeout = %s", c.PoolTimeout)
	}
	if c.QueryType != "simple" || c.Iterations != 10 {
		t.Errorf("QueryType=%q Iterations=%d", c.QueryType, c.Iterations)
	}
	if !c.CacheTLS {
		t.Error("CacheTLS should default to true")
	}
}

func TestFromEnv_CacheTLS(t *testing.T) {
	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if !c.CacheTLS {
		t.Error("CacheTLS should stay true when VALKEY_TLS is unset")
	}

	t.Setenv("VALKEY_TLS", "false")
	c, err = FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if c.CacheTLS {
		t.Error("VALKEY_TLS=false should disable cache TLS")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DSQL_CLUSTER_ENDPOINT", "cluster.dsql.us-west-2.on.aws")
	t.Setenv("VALKEY_ENDPOINT", "cache.local:6379")
	t.Setenv("AWS_REGION", "us-west-2")
	t.Setenv("VALKEY_TTL", "60")
	t.Setenv("DSQL_POOL_MIN", "2")
	t.Setenv("DSQL_POOL_MAX", "8")
	t.Setenv("DSQL_POOL_TIMEOUT", "5")
	t.Setenv("QUERY_TYPE", "complex")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if c.ClusterEndpoint != "cluster.dsql.us-west-2.on.aws" {
		t.Errorf("ClusterEndpoint = %q", c.ClusterEndpoint)
	}
	if c.Region != "us-west-2" {
		t.Errorf("Region = %q", c.Region)
	}
	if c.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %s", c.CacheTTL)
	}
	if c.PoolMin != 2 || c.PoolMax != 8 || c.PoolTimeout != 5*time.Second {
		t.Errorf("pool = %d/%d timeout %s", c.PoolMin, c.PoolMax, c.PoolTimeout)
	}
	if c.Query() != ComplexQuery {
		t.Errorf("Query() should select the complex text")
	}
}

func TestFromEnv_BadInt(t *testing.T) {
	t.Setenv("DSQL_POOL_MIN", "five")
	if _, err := FromEnv(); err == nil {
		t.Error("non-numeric pool size should fail")
	}
}

func TestQuery(t *testing.T) {
	c := Default()
	if c.Query() != SimpleQuery {
		t.Errorf("default Query() = %q", c.Query())
	}
	c.QueryType = "complex"
	if !strings.Contains(c.Query(), "LEFT JOIN orders") {
		t.Error("complex query should join orders")
	}
	c.QueryText = "SELECT 1"
	if c.Query() != "SELECT 1" {
		t.Error("QueryText must override QueryType")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.ClusterEndpoint = "cluster.dsql.us-east-1.on.aws"
	valid.CacheEndpoint = "cache.local:6379"
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c := valid
	c.ClusterEndpoint = ""
	if err := c.Validate(); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("got %v, want ErrNoEndpoint", err)
	}

	c = valid
	c.CacheEndpoint = ""
	if err := c.Validate(); !errors.Is(err, ErrNoCacheEndpoint) {
		t.Errorf("got %v, want ErrNoCacheEndpoint", err)
	}

	c = valid
	c.QueryType = "medium"
	if err := c.Validate(); !errors.Is(err, ErrBadQueryType) {
		t.Errorf("got %v, want ErrBadQueryType", err)
	}

	c = valid
	c.QueryType = "medium"
	c.QueryText = "SELECT 1"
	if err := c.Validate(); err != nil {
		t.Errorf("explicit QueryText should bypass QueryType: %v", err)
	}

	c = valid
	c.PoolMin = 10
	c.PoolMax = 2
	if err := c.Validate(); !errors.Is(err, ErrBadPoolBounds) {
		t.Errorf("got %v, want ErrBadPoolBounds", err)
	}
}

func TestOverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("cluster_endpoint: file.dsql.on.aws\npool_max: 12\ncache_ttl_seconds: 90\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	c := Default()
	c.ClusterEndpoint = "env.dsql.on.aws"
	c.CacheEndpoint = "cache.local:6379"
	if err := c.OverlayFile(path); err != nil {
		t.Fatalf("OverlayFile failed: %v", err)
	}

	if c.ClusterEndpoint != "file.dsql.on.aws" {
		t.Errorf("file value should win: %q", c.ClusterEndpoint)
	}
	if c.PoolMax != 12 {
		t.Errorf("PoolMax = %d, want 12", c.PoolMax)
	}
	if c.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %s, want 90s", c.CacheTTL)
	}
	if c.CacheEndpoint != "cache.local:6379" {
		t.Errorf("absent key must not reset %q", c.CacheEndpoint)
	}
	if c.PoolMin != 5 {
		t.Errorf("absent key must not reset PoolMin, got %d", c.PoolMin)
	}
}

func TestOverlayFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pool_max: [broken"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	c := Default()
	if err := c.OverlayFile(path); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("QC_CLUSTER", "cluster.dsql.us-east-1.on.aws")
	t.Setenv("QC_CACHE_TOKEN", "s3cret")

	c := Default()
	c.ClusterEndpoint = "${QC_CLUSTER}"
	c.CacheEndpoint = "cache.local:6379"
	c.CacheAuthToken = "secretref:env:QC_CACHE_TOKEN"

	r := secret.NewResolver(secret.EnvProvider{})
	if err := c.Resolve(context.Background(), r); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if c.ClusterEndpoint != "cluster.dsql.us-east-1.on.aws" {
		t.Errorf("ClusterEndpoint = %q", c.ClusterEndpoint)
	}
	if c.CacheAuthToken != "s3cret" {
		t.Errorf("CacheAuthToken = %q", c.CacheAuthToken)
	}
}
