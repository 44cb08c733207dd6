package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with pointer fields so an absent key leaves
// the environment value untouched.
type fileConfig struct {
	ClusterEndpoint *string `yaml:"cluster_endpoint"`
	Region          *string `yaml:"region"`
	CacheEndpoint   *string `yaml:"cache_endpoint"`
	CacheAuthToken  *string `yaml:"cache_auth_token"`
	CacheTLS        *bool   `yaml:"cache_tls"`
	CacheTTL        *int    `yaml:"cache_ttl_seconds"`
	PoolMin         *int    `yaml:"pool_min"`
	PoolMax         *int    `yaml:"pool_max"`
	PoolTimeout     *int    `yaml:"pool_timeout_seconds"`
	QueryType       *string `yaml:"query_type"`
	QueryText       *string `yaml:"query_text"`
	Iterations      *int    `yaml:"iterations"`
}

// OverlayFile applies the YAML file at path on top of c. Keys present in
// the file win over environment values.
func (c *Config) OverlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setString(&c.ClusterEndpoint, f.ClusterEndpoint)
	setString(&c.Region, f.Region)
	setString(&c.CacheEndpoint, f.CacheEndpoint)
	setString(&c.CacheAuthToken, f.CacheAuthToken)
	setString(&c.QueryType, f.QueryType)
	setString(&c.QueryText, f.QueryText)
	if f.CacheTLS != nil {
		c.CacheTLS = *f.CacheTLS
	}
	if f.CacheTTL != nil {
		c.CacheTTL = time.Duration(*f.CacheTTL) * time.Second
	}
	setInt(&c.PoolMin, f.PoolMin)
	setInt(&c.PoolMax, f.PoolMax)
	if f.PoolTimeout != nil {
		c.PoolTimeout = time.Duration(*f.PoolTimeout) * time.Second
	}
	setInt(&c.Iterations, f.Iterations)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
