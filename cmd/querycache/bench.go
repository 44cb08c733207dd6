package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/querycache/bench"
	"github.com/jonwraymond/querycache/cache"
	"github.com/jonwraymond/querycache/credential"
	"github.com/jonwraymond/querycache/dsql"
	"github.com/jonwraymond/querycache/health"
	"github.com/jonwraymond/querycache/observe"
	"github.com/jonwraymond/querycache/pool"
	"github.com/jonwraymond/querycache/query"
)

type benchOptions struct {
	queryText      string
	iterations     int
	noFlush        bool
	traceExporter  string
	metricExporter string
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the three-phase cache benchmark",
		Long: `Runs preflight health checks against the cache and the cluster, then
executes the benchmark in three phases over one shared connection pool:
cold (empty cache), warm, and optimized. Prints per-phase latency and
the overall speedup hits deliver over misses.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.queryText, "query", "", "query to benchmark, overriding QUERY_TYPE/QUERY_TEXT")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "iterations per phase (default from BENCH_ITERATIONS or 10)")
	cmd.Flags().BoolVar(&opts.noFlush, "no-flush", false, "skip flushing the cache before the cold phase")
	cmd.Flags().StringVar(&opts.traceExporter, "trace-exporter", "none", "trace exporter (otlp|stdout|none)")
	cmd.Flags().StringVar(&opts.metricExporter, "metric-exporter", "none", "metric exporter (otlp|prometheus|stdout|none)")
	return cmd
}

func runBench(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *benchOptions) error {
	cfg, err := loadConfig(ctx, root)
	if err != nil {
		return err
	}
	if opts.queryText != "" {
		cfg.QueryText = opts.queryText
	}
	if opts.iterations > 0 {
		cfg.Iterations = opts.iterations
	}

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "querycache",
		Version:     version,
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: opts.traceExporter, SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: opts.metricExporter},
		Logging:     observe.LoggingConfig{Enabled: true, Level: root.logLevel},
	})
	if err != nil {
		return fmt.Errorf("set up telemetry: %w", err)
	}
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutCtx)
	}()
	logger := obs.Logger()

	metrics, err := observe.NewQueryMetrics(obs.Meter())
	if err != nil {
		return fmt.Errorf("set up metrics: %w", err)
	}

	creds, err := credential.NewDSQLProvider(ctx, credential.DSQLConfig{
		Endpoint: cfg.ClusterEndpoint,
		Region:   cfg.Region,
	})
	if err != nil {
		return fmt.Errorf("set up token provider: %w", err)
	}

	dialer, err := dsql.NewDialer(dsql.Config{Endpoint: cfg.ClusterEndpoint})
	if err != nil {
		return fmt.Errorf("set up dialer: %w", err)
	}

	valkey, err := cache.NewValkeyCache(cache.ValkeyConfig{
		Addr:      cfg.CacheEndpoint,
		AuthToken: cfg.CacheAuthToken,
		NoTLS:     !cfg.CacheTLS,
	}, logger)
	if err != nil {
		return fmt.Errorf("set up cache: %w", err)
	}
	defer valkey.Close()

	logger.Info(ctx, "establishing connection pool",
		observe.F("min", cfg.PoolMin),
		observe.F("max", cfg.PoolMax),
	)
	p, err := pool.New(ctx, pool.Config{
		Min:            cfg.PoolMin,
		Max:            cfg.PoolMax,
		AcquireTimeout: cfg.PoolTimeout,
	}, dialer, creds, logger, metrics)
	if err != nil {
		return fmt.Errorf("establish connection pool: %w", err)
	}
	defer p.Close(context.Background())

	// Preflight: both dependencies must answer before the run starts.
	agg := health.NewAggregator(cfg.PoolTimeout,
		health.NewCacheChecker("valkey", valkey),
		health.NewPoolChecker(p),
	)
	summary := agg.Run(ctx)
	for _, r := range summary.Results {
		logger.Info(ctx, "preflight check",
			observe.F("check", r.Name),
			observe.F("status", r.Status.String()),
			observe.F("message", r.Message),
		)
	}
	if !summary.Healthy() {
		return fmt.Errorf("preflight checks failed: %s", summary.Status)
	}

	orch, err := query.NewOrchestrator(valkey, p,
		query.WithPolicy(cache.Policy{DefaultTTL: cfg.CacheTTL, MaxTTL: time.Hour}),
		query.WithLogger(logger),
		query.WithMetrics(metrics),
		query.WithTracer(obs.Tracer()),
	)
	if err != nil {
		return fmt.Errorf("set up orchestrator: %w", err)
	}

	harness, err := bench.NewHarness(orch, bench.Config{
		Query:      cfg.Query(),
		Iterations: cfg.Iterations,
		FlushFirst: !opts.noFlush,
	}, logger)
	if err != nil {
		return err
	}

	report, err := harness.Run(ctx)
	if err != nil {
		return err
	}

	cmd.Println(report.String())
	return nil
}
