package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/querycache/cache"
	"github.com/jonwraymond/querycache/observe"
)

func newFlushCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Flush the cache keyspace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, root)
			if err != nil {
				return err
			}

			valkey, err := cache.NewValkeyCache(cache.ValkeyConfig{
				Addr:      cfg.CacheEndpoint,
				AuthToken: cfg.CacheAuthToken,
				NoTLS:     !cfg.CacheTLS,
			}, observe.NewLogger(root.logLevel))
			if err != nil {
				return err
			}
			defer valkey.Close()

			if err := valkey.Flush(ctx); err != nil {
				return fmt.Errorf("flush cache: %w", err)
			}
			cmd.Println("cache flushed")
			return nil
		},
	}
}
