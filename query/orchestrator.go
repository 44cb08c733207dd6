package query

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/querycache/cache"
	"github.com/jonwraymond/querycache/observe"
	"github.com/jonwraymond/querycache/pool"
)

// Result is the outcome of one orchestrated query.
type Result struct {
	// Payload is the serialized result set, identical whether it came
	// from the cache or the backend.
	Payload []byte

	// CacheHit reports whether the cache served the payload.
	CacheHit bool

	// Elapsed is the caller-observed latency of this call.
	Elapsed time.Duration

	// BackendElapsed is the backend execution time: measured on a miss,
	// replayed from the cached envelope on a hit.
	BackendElapsed time.Duration
}

// Orchestrator runs cache-aside queries against a pooled backend.
//
// Contract:
// - Concurrency: safe for concurrent use; each call is independent and
//   no ordering is guaranteed between concurrent calls.
// - Errors: only pool.ErrAcquireTimeout and *BackendError surface per
//   call. Cache failures are absorbed as misses.
type Orchestrator struct {
	cache   cache.Cache
	keyer   cache.Keyer
	policy  cache.Policy
	pool    *pool.Pool
	logger  observe.Logger
	metrics *observe.QueryMetrics
	tracer  trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithKeyer overrides the default verbatim keyer.
func WithKeyer(k cache.Keyer) Option {
	return func(o *Orchestrator) { o.keyer = k }
}

// WithPolicy overrides the default TTL policy.
func WithPolicy(p cache.Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithLogger attaches a logger.
func WithLogger(l observe.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithMetrics attaches query metrics.
func WithMetrics(m *observe.QueryMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer attaches a tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

// NewOrchestrator creates an orchestrator over the given cache and pool.
func NewOrchestrator(c cache.Cache, p *pool.Pool, opts ...Option) (*Orchestrator, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if p == nil {
		return nil, ErrNilPool
	}

	o := &Orchestrator{
		cache:  c,
		keyer:  cache.NewQueryKeyer(),
		policy: cache.DefaultPolicy(),
		pool:   p,
		logger: observe.NopLogger(),
		tracer: tracenoop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(observe.F("component", "query"))
	return o, nil
}

// Do runs one query through the cache-aside state machine.
func (o *Orchestrator) Do(ctx context.Context, q string) (Result, error) {
	start := time.Now()
	if q == "" {
		return Result{}, ErrEmptyQuery
	}

	ctx, span := observe.StartQuerySpan(ctx, o.tracer, q)

	key, err := o.keyer.Key(q)
	if err != nil {
		// Unkeyable queries execute without caching.
		o.logger.Warn(ctx, "query not cacheable", observe.F("error", err.Error()))
		res, execErr := o.execute(ctx, q, "", start)
		observe.EndQuerySpan(span, false, execErr)
		return res, execErr
	}

	// ProbeCache
	probeStart := time.Now()
	cached, ok := o.cache.Get(ctx, key)
	probeElapsed := time.Since(probeStart)
	o.metrics.RecordLookup(ctx, ok, probeElapsed)

	if ok {
		payload, backendElapsed, err := decodeEnvelope(cached)
		if err == nil {
			// HitDone: the payload returns unchanged, no backend call,
			// no token work.
			o.logger.Debug(ctx, "cache hit",
				observe.F("cache_ms", probeElapsed.Milliseconds()),
			)
			observe.EndQuerySpan(span, true, nil)
			return Result{
				Payload:        payload,
				CacheHit:       true,
				Elapsed:        time.Since(start),
				BackendElapsed: backendElapsed,
			}, nil
		}
		o.logger.Warn(ctx, "corrupt cache entry, treating as miss", observe.F("error", err.Error()))
	}

	// MissExecute -> StoreCache
	res, execErr := o.execute(ctx, q, key, start)
	observe.EndQuerySpan(span, false, execErr)
	return res, execErr
}

// execute runs the query on a pooled connection and, when key is
// non-empty, stores the result best-effort.
func (o *Orchestrator) execute(ctx context.Context, q, key string, start time.Time) (Result, error) {
	pc, err := o.pool.Acquire(ctx)
	if err != nil {
		// Pool exhaustion and credential failures surface as-is.
		return Result{}, err
	}
	// The connection is released on every path; it must never leak.
	defer o.pool.Release(pc)

	payload, backendElapsed, err := pc.Query(ctx, q)
	o.metrics.RecordBackend(ctx, backendElapsed, err)
	if err != nil {
		// The cache is not written on failure.
		return Result{}, &BackendError{Query: q, Err: err}
	}

	if key != "" {
		o.store(ctx, key, payload, backendElapsed)
	}

	o.logger.Debug(ctx, "cache miss executed",
		observe.F("backend_ms", backendElapsed.Milliseconds()),
	)
	return Result{
		Payload:        payload,
		CacheHit:       false,
		Elapsed:        time.Since(start),
		BackendElapsed: backendElapsed,
	}, nil
}

// store writes the envelope with the policy TTL. Failure is logged, never
// propagated: a cache write failure must not fail the query.
func (o *Orchestrator) store(ctx context.Context, key string, payload []byte, backendElapsed time.Duration) {
	ttl := o.policy.EffectiveTTL(0)
	if ttl <= 0 {
		return
	}

	data, err := encodeEnvelope(payload, backendElapsed)
	if err != nil {
		o.logger.Warn(ctx, "cache store skipped", observe.F("error", err.Error()))
		return
	}
	if err := o.cache.Set(ctx, key, data, ttl); err != nil {
		o.logger.Warn(ctx, "cache store failed", observe.F("error", err.Error()))
	}
}

// Flush clears the cache keyspace. The benchmark harness uses it to
// guarantee a cold first iteration.
func (o *Orchestrator) Flush(ctx context.Context) error {
	return o.cache.Flush(ctx)
}
