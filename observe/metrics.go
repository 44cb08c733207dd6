package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueryMetrics records cache lookup, backend execution, and pool metrics.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Context: must return quickly; recording is best-effort.
// - Errors: must not panic.
type QueryMetrics struct {
	lookupCount  metric.Int64Counter
	lookupHist   metric.Float64Histogram
	backendHist  metric.Float64Histogram
	backendErrs  metric.Int64Counter
	acquireHist  metric.Float64Histogram
	inUseCounter metric.Int64UpDownCounter
}

// NewQueryMetrics creates the metric instruments on the given meter.
func NewQueryMetrics(meter metric.Meter) (*QueryMetrics, error) {
	lookupCount, err := meter.Int64Counter(
		"cache.lookup.total",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	lookupHist, err := meter.Float64Histogram(
		"cache.lookup.duration_ms",
		metric.WithDescription("Cache lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	backendHist, err := meter.Float64Histogram(
		"query.backend.duration_ms",
		metric.WithDescription("Backend query execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	backendErrs, err := meter.Int64Counter(
		"query.backend.errors",
		metric.WithDescription("Total number of backend execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	acquireHist, err := meter.Float64Histogram(
		"pool.acquire.wait_ms",
		metric.WithDescription("Time spent waiting to acquire a pooled connection"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	inUseCounter, err := meter.Int64UpDownCounter(
		"pool.connections.in_use",
		metric.WithDescription("Number of pooled connections currently checked out"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return nil, err
	}

	return &QueryMetrics{
		lookupCount:  lookupCount,
		lookupHist:   lookupHist,
		backendHist:  backendHist,
		backendErrs:  backendErrs,
		acquireHist:  acquireHist,
		inUseCounter: inUseCounter,
	}, nil
}

// RecordLookup records one cache lookup and its duration.
func (m *QueryMetrics) RecordLookup(ctx context.Context, hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	opt := metric.WithAttributes(attribute.Bool("cache.hit", hit))
	m.lookupCount.Add(ctx, 1, opt)
	m.lookupHist.Record(ctx, float64(duration.Nanoseconds())/1e6, opt)
}

// RecordBackend records one backend execution and its duration.
func (m *QueryMetrics) RecordBackend(ctx context.Context, duration time.Duration, err error) {
	if m == nil {
		return
	}
	opt := metric.WithAttributes(attribute.Bool("query.error", err != nil))
	m.backendHist.Record(ctx, float64(duration.Nanoseconds())/1e6, opt)
	if err != nil {
		m.backendErrs.Add(ctx, 1)
	}
}

// RecordAcquireWait records time spent waiting in pool acquire.
func (m *QueryMetrics) RecordAcquireWait(ctx context.Context, wait time.Duration) {
	if m == nil {
		return
	}
	m.acquireHist.Record(ctx, float64(wait.Nanoseconds())/1e6)
}

// AddInUse adjusts the checked-out connection gauge.
func (m *QueryMetrics) AddInUse(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.inUseCounter.Add(ctx, delta)
}
