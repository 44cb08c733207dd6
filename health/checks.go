package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/querycache/cache"
	"github.com/jonwraymond/querycache/pool"
)

// NewCacheChecker probes a cache transport with PING.
func NewCacheChecker(name string, p cache.Pinger) *CheckFunc {
	return NewCheckFunc(name, func(ctx context.Context) Result {
		if err := p.Ping(ctx); err != nil {
			return Result{
				Status:  StatusUnhealthy,
				Message: "cache unreachable",
				Err:     err,
			}
		}
		return Result{Status: StatusHealthy, Message: "ping ok"}
	})
}

// NewPoolChecker verifies the pool can hand out a live connection. It
// acquires one, pings the backend through it, and releases it. A pool
// running below its configured minimum reports degraded.
func NewPoolChecker(p *pool.Pool) *CheckFunc {
	return NewCheckFunc("pool", func(ctx context.Context) Result {
		pc, err := p.Acquire(ctx)
		if err != nil {
			return Result{
				Status:  StatusUnhealthy,
				Message: "cannot acquire connection",
				Err:     err,
			}
		}
		defer p.Release(pc)

		if err := pc.Ping(ctx); err != nil {
			return Result{
				Status:  StatusUnhealthy,
				Message: "backend ping failed",
				Err:     err,
			}
		}

		stats := p.Stats()
		if stats.Idle+stats.InUse < stats.Min {
			return Result{
				Status:  StatusDegraded,
				Message: fmt.Sprintf("pool below minimum: %d of %d", stats.Idle+stats.InUse, stats.Min),
			}
		}
		return Result{
			Status:  StatusHealthy,
			Message: fmt.Sprintf("idle=%d in_use=%d", stats.Idle, stats.InUse),
		}
	})
}
