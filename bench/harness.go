package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/querycache/observe"
	"github.com/jonwraymond/querycache/query"
)

// Phase identifies one stage of a benchmark run.
type Phase string

const (
	// PhaseCold runs first, against an empty cache keyspace.
	PhaseCold Phase = "cold"

	// PhaseWarm runs second, against the entries the cold phase stored.
	PhaseWarm Phase = "warm"

	// PhaseOptimized runs last, with the pool fully warmed and the cache
	// populated.
	PhaseOptimized Phase = "optimized"
)

// DefaultIterations is the per-phase iteration count.
const DefaultIterations = 10

// Sentinel errors for harness construction.
var (
	ErrNilRunner = errors.New("bench: runner is nil")
	ErrNoQuery   = errors.New("bench: query is empty")
)

// Runner executes queries and clears the cache keyspace. Implemented by
// *query.Orchestrator.
type Runner interface {
	Do(ctx context.Context, q string) (query.Result, error)
	Flush(ctx context.Context) error
}

// Config configures a benchmark run.
type Config struct {
	// Query is the statement every iteration executes.
	Query string

	// Iterations is the per-phase iteration count.
	// Default: 10
	Iterations int

	// Phases is the ordered phase list.
	// Default: cold, warm, optimized
	Phases []Phase

	// FlushFirst clears the cache before the first phase so iteration 1
	// is a guaranteed miss.
	FlushFirst bool
}

func (c *Config) applyDefaults() {
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if len(c.Phases) == 0 {
		c.Phases = []Phase{PhaseCold, PhaseWarm, PhaseOptimized}
	}
}

// Sample is one measured iteration.
type Sample struct {
	Phase          Phase
	Iteration      int
	CacheHit       bool
	Elapsed        time.Duration
	BackendElapsed time.Duration
}

// Harness drives a multi-phase benchmark over a shared runner.
type Harness struct {
	runner Runner
	config Config
	logger observe.Logger
}

// NewHarness creates a harness.
func NewHarness(runner Runner, config Config, logger observe.Logger) (*Harness, error) {
	if runner == nil {
		return nil, ErrNilRunner
	}
	if config.Query == "" {
		return nil, ErrNoQuery
	}
	config.applyDefaults()
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Harness{
		runner: runner,
		config: config,
		logger: logger.With(observe.F("component", "bench")),
	}, nil
}

// Run executes every configured phase in order and returns the combined
// report. A failed iteration aborts the run; partial results are not
// reported.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if h.config.FlushFirst {
		if err := h.runner.Flush(ctx); err != nil {
			// A flush failure only risks a warm first iteration.
			h.logger.Warn(ctx, "pre-run flush failed", observe.F("error", err.Error()))
		}
	}

	report := &Report{
		Query:      h.config.Query,
		Iterations: h.config.Iterations,
		StartedAt:  time.Now(),
	}

	for _, phase := range h.config.Phases {
		pr, err := h.runPhase(ctx, phase)
		if err != nil {
			return nil, err
		}
		report.Phases = append(report.Phases, pr)
	}

	report.Elapsed = time.Since(report.StartedAt)
	report.summarize()

	h.logger.Info(ctx, "benchmark complete",
		observe.F("phases", len(report.Phases)),
		observe.F("mean_miss_ms", report.MeanMiss.Milliseconds()),
		observe.F("mean_hit_ms", report.MeanHit.Milliseconds()),
	)
	return report, nil
}

func (h *Harness) runPhase(ctx context.Context, phase Phase) (PhaseResult, error) {
	pr := PhaseResult{Phase: phase}

	for i := 1; i <= h.config.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return PhaseResult{}, err
		}

		res, err := h.runner.Do(ctx, h.config.Query)
		if err != nil {
			return PhaseResult{}, fmt.Errorf("bench: %s phase iteration %d: %w", phase, i, err)
		}

		pr.Samples = append(pr.Samples, Sample{
			Phase:          phase,
			Iteration:      i,
			CacheHit:       res.CacheHit,
			Elapsed:        res.Elapsed,
			BackendElapsed: res.BackendElapsed,
		})
	}

	pr.summarize()
	h.logger.Info(ctx, "phase complete",
		observe.F("phase", string(phase)),
		observe.F("hits", pr.Hits),
		observe.F("misses", pr.Misses),
	)
	return pr, nil
}
