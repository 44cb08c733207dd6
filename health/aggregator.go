package health

import (
	"context"
	"sync"
	"time"
)

// DefaultTimeout bounds one aggregate run.
const DefaultTimeout = 10 * time.Second

// Summary is the combined outcome of all registered checks.
type Summary struct {
	Status  Status
	Results []Result
}

// Healthy reports whether the run may proceed. Degraded dependencies do
// not block a benchmark.
func (s Summary) Healthy() bool {
	return s.Status != StatusUnhealthy
}

// Aggregator runs registered checks concurrently under one deadline.
type Aggregator struct {
	timeout  time.Duration
	checkers []Checker
}

// NewAggregator creates an aggregator. A non-positive timeout uses
// DefaultTimeout.
func NewAggregator(timeout time.Duration, checkers ...Checker) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{timeout: timeout, checkers: checkers}
}

// Register appends a checker. Not safe to call concurrently with Run.
func (a *Aggregator) Register(c Checker) {
	a.checkers = append(a.checkers, c)
}

// Run executes every checker in parallel and returns the results in
// registration order. A checker that outlives the deadline reports
// unhealthy with the context error.
func (a *Aggregator) Run(ctx context.Context) Summary {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make([]Result, len(a.checkers))
	var wg sync.WaitGroup
	for i, c := range a.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = runOne(ctx, c)
		}(i, c)
	}
	wg.Wait()

	return Summary{Status: overall(results), Results: results}
}

func runOne(ctx context.Context, c Checker) Result {
	start := time.Now()
	done := make(chan Result, 1)
	go func() {
		done <- c.Check(ctx)
	}()

	select {
	case r := <-done:
		r.Name = c.Name()
		r.Elapsed = time.Since(start)
		return r
	case <-ctx.Done():
		return Result{
			Name:    c.Name(),
			Status:  StatusUnhealthy,
			Message: "check timed out",
			Elapsed: time.Since(start),
			Err:     ctx.Err(),
		}
	}
}

// overall is unhealthy if any check is, degraded if any check is and
// none are unhealthy, healthy otherwise.
func overall(results []Result) Status {
	status := StatusHealthy
	for _, r := range results {
		if r.Status > status {
			status = r.Status
		}
	}
	return status
}
