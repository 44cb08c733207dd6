package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/querycache/config"
	"github.com/jonwraymond/querycache/secret"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "querycache",
		Short:   "Benchmark read-through caching of Aurora DSQL queries in Valkey",
		Version: version,

		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file overlaying the environment")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	cmd.AddCommand(newBenchCmd(opts))
	cmd.AddCommand(newFlushCmd(opts))
	return cmd
}

// loadConfig assembles the effective configuration: defaults, then
// environment, then the optional file, then secret resolution.
func loadConfig(ctx context.Context, opts *rootOptions) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if opts.configPath != "" {
		if err := cfg.OverlayFile(opts.configPath); err != nil {
			return config.Config{}, err
		}
	}

	resolver := secret.NewResolver(secret.EnvProvider{}, secret.FileProvider{})
	if err := cfg.Resolve(ctx, resolver); err != nil {
		return config.Config{}, fmt.Errorf("resolve config secrets: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
