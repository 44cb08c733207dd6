package pool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/querycache/credential"
	"github.com/jonwraymond/querycache/observe"
)

// Config configures the pool.
type Config struct {
	// Min is the number of connections established at construction.
	// Default: 5
	Min int

	// Max is the hard upper bound on live connections.
	// Default: 30
	Max int

	// AcquireTimeout is the maximum time Acquire blocks for a connection.
	// Default: 30 seconds
	AcquireTimeout time.Duration

	// RefreshMargin is how close to token expiry a connection may be and
	// still be handed out. Connections inside the margin are discarded at
	// handout and replaced with a freshly dialed one.
	// Default: 1 minute
	RefreshMargin time.Duration

	// Principal is the identity tokens are issued for.
	// Default: "admin"
	Principal string
}

func (c *Config) applyDefaults() {
	if c.Min < 0 {
		c.Min = 0
	}
	if c.Min == 0 && c.Max == 0 {
		c.Min = 5
	}
	if c.Max <= 0 {
		c.Max = 30
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = 30 * time.Second
	}
	if c.RefreshMargin <= 0 {
		c.RefreshMargin = time.Minute
	}
	if c.Principal == "" {
		c.Principal = credential.AdminPrincipal
	}
}

// Stats is a point-in-time snapshot of pool state.
type Stats struct {
	Idle     int
	InUse    int
	Waiters  int
	Min      int
	Max      int
	Dials    int64
	Discards int64
	Timeouts int64
}

// Pool is a bounded, thread-safe set of backend connections.
//
// Contract:
// - Concurrency: safe for concurrent Acquire/Release from any number of
//   goroutines. Two callers never receive the same connection.
// - Cancellation: a caller that times out or is canceled while waiting
//   holds no connection afterward.
type Pool struct {
	config  Config
	dialer  Dialer
	creds   credential.Provider
	logger  observe.Logger
	metrics *observe.QueryMetrics

	mu       sync.Mutex
	idle     []*PooledConn
	total    int // idle + checked out + in-flight dials
	waiters  []chan *PooledConn
	closed   bool
	dials    int64
	discards int64
	timeouts int64
}

// New creates a pool and eagerly establishes config.Min connections.
// Failing to establish the minimum is fatal: no pool is returned.
func New(ctx context.Context, config Config, dialer Dialer, creds credential.Provider, logger observe.Logger, metrics *observe.QueryMetrics) (*Pool, error) {
	config.applyDefaults()
	if config.Min > config.Max {
		return nil, ErrMinExceedsMax
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	p := &Pool{
		config:  config,
		dialer:  dialer,
		creds:   creds,
		logger:  logger.With(observe.F("component", "pool")),
		metrics: metrics,
	}

	// Warm-up: establish the minimum concurrently. This is the setup cost
	// attributed to the cold benchmark phase.
	warm := make([]*PooledConn, config.Min)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < config.Min; i++ {
		g.Go(func() error {
			pc, err := p.dial(gctx)
			if err != nil {
				return err
			}
			warm[i] = pc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, pc := range warm {
			if pc != nil {
				pc.close()
			}
		}
		return nil, fmt.Errorf("pool: establish minimum connections: %w", err)
	}

	p.idle = make([]*PooledConn, 0, config.Max)
	for _, pc := range warm {
		p.idle = append(p.idle, pc)
	}
	p.total = config.Min

	p.logger.Info(ctx, "pool initialized",
		observe.F("min", config.Min),
		observe.F("max", config.Max),
	)
	return p, nil
}

// Acquire returns a connection, blocking until one is available or the
// acquire timeout elapses. The returned connection's token is guaranteed
// to be outside the refresh margin at handout.
func (p *Pool) Acquire(ctx context.Context) (*PooledConn, error) {
	start := time.Now()
	timer := time.NewTimer(p.acquireTimeout())
	defer timer.Stop()

	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}

		// Reuse idle connections, newest first, discarding stale tokens.
		for len(p.idle) > 0 {
			n := len(p.idle)
			pc := p.idle[n-1]
			p.idle = p.idle[:n-1]

			if pc.token.ExpiringWithin(time.Now(), p.config.RefreshMargin) {
				p.total--
				p.discards++
				p.mu.Unlock()
				pc.close()
				p.logger.Debug(ctx, "discarded connection with stale token")
				p.mu.Lock()
				continue
			}

			p.mu.Unlock()
			p.recordAcquire(ctx, start)
			return pc, nil
		}

		// Grow below the maximum. The slot is reserved before unlocking so
		// concurrent acquirers cannot oversubscribe.
		if p.total < p.config.Max {
			p.total++
			p.mu.Unlock()

			pc, err := p.dial(ctx)
			if err != nil {
				p.mu.Lock()
				p.total--
				p.notifyOneLocked()
				p.mu.Unlock()
				return nil, err
			}
			p.recordAcquire(ctx, start)
			return pc, nil
		}

		// At capacity: wait for a release.
		w := make(chan *PooledConn, 1)
		p.waiters = append(p.waiters, w)
		p.mu.Unlock()

		select {
		case pc := <-w:
			if pc == nil {
				// Capacity may have opened, or the pool closed; re-evaluate.
				continue
			}
			if pc.token.ExpiringWithin(time.Now(), p.config.RefreshMargin) {
				p.mu.Lock()
				p.total--
				p.discards++
				p.mu.Unlock()
				pc.close()
				continue
			}
			p.recordAcquire(ctx, start)
			return pc, nil

		case <-timer.C:
			p.abandonWaiter(w)
			p.mu.Lock()
			p.timeouts++
			p.mu.Unlock()
			return nil, ErrAcquireTimeout

		case <-ctx.Done():
			p.abandonWaiter(w)
			return nil, ctx.Err()
		}
	}
}

// Release returns a connection to the pool. A connection whose token has
// expired is discarded instead; the pool backfills lazily on the next
// acquire, so total size may temporarily drop below the minimum.
func (p *Pool) Release(pc *PooledConn) {
	if pc == nil {
		return
	}
	ctx := context.Background()
	p.metrics.AddInUse(ctx, -1)

	p.mu.Lock()
	if p.closed {
		p.total--
		p.mu.Unlock()
		pc.close()
		return
	}
	if pc.token.Expired(time.Now()) {
		p.total--
		p.discards++
		p.mu.Unlock()
		pc.close()
		p.logger.Debug(ctx, "discarded released connection with expired token")
		return
	}
	if p.total > p.config.Max {
		// Pool was downsized while this connection was checked out.
		p.total--
		p.discards++
		p.mu.Unlock()
		pc.close()
		return
	}
	p.putLocked(pc)
	p.mu.Unlock()
}

// Resize adjusts the pool bounds. Shrinking closes excess idle
// connections immediately; growing never dials eagerly.
func (p *Pool) Resize(min, max int) error {
	if max <= 0 || min < 0 {
		return fmt.Errorf("pool: invalid bounds min=%d max=%d", min, max)
	}
	if min > max {
		return ErrMinExceedsMax
	}

	var victims []*PooledConn
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.config.Min = min
	p.config.Max = max
	for p.total > max && len(p.idle) > 0 {
		n := len(p.idle)
		victims = append(victims, p.idle[n-1])
		p.idle = p.idle[:n-1]
		p.total--
		p.discards++
	}
	p.mu.Unlock()

	for _, pc := range victims {
		pc.close()
	}
	return nil
}

// Close tears down the pool: idle connections are closed, waiters are
// woken with ErrPoolClosed, and checked-out connections are closed as
// they are released.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.total -= len(idle)
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, w := range waiters {
		w <- nil
	}
	for _, pc := range idle {
		_ = pc.conn.Close(ctx)
	}

	p.logger.Info(ctx, "pool closed", observe.F("closed_idle", len(idle)))
	return nil
}

// Stats returns a snapshot of pool state.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Idle:     len(p.idle),
		InUse:    p.total - len(p.idle),
		Waiters:  len(p.waiters),
		Min:      p.config.Min,
		Max:      p.config.Max,
		Dials:    p.dials,
		Discards: p.discards,
		Timeouts: p.timeouts,
	}
}

// AcquireTimeout returns the configured acquire timeout.
func (p *Pool) AcquireTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.AcquireTimeout
}

func (p *Pool) acquireTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.config.AcquireTimeout
}

// dial issues a fresh token and opens a connection with it.
func (p *Pool) dial(ctx context.Context) (*PooledConn, error) {
	token, err := p.creds.Issue(ctx, p.config.Principal)
	if err != nil {
		return nil, fmt.Errorf("pool: issue token: %w", err)
	}

	conn, err := p.dialer.Dial(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("pool: dial backend: %w", err)
	}

	p.mu.Lock()
	p.dials++
	p.mu.Unlock()

	p.logger.Debug(ctx, "dialed backend connection with fresh token")
	return &PooledConn{
		conn:      conn,
		token:     token,
		createdAt: time.Now(),
	}, nil
}

// putLocked hands pc to the oldest waiter or parks it idle.
// Caller holds p.mu.
func (p *Pool) putLocked(pc *PooledConn) {
	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		w <- pc
		return
	}
	p.idle = append(p.idle, pc)
}

// put is putLocked for callers not holding the mutex, with the closed
// check a releasing path needs.
func (p *Pool) put(pc *PooledConn) {
	p.mu.Lock()
	if p.closed || pc.token.Expired(time.Now()) {
		p.total--
		p.mu.Unlock()
		pc.close()
		return
	}
	p.putLocked(pc)
	p.mu.Unlock()
}

// notifyOneLocked wakes one waiter to re-evaluate after capacity opened.
// Caller holds p.mu.
func (p *Pool) notifyOneLocked() {
	if len(p.waiters) > 0 {
		w := p.waiters[0]
		p.waiters = p.waiters[1:]
		w <- nil
	}
}

// abandonWaiter removes w after a timeout or cancellation. If a
// connection was already delivered, it is handed to someone else so the
// abandoning caller never holds a reservation.
func (p *Pool) abandonWaiter(w chan *PooledConn) {
	p.mu.Lock()
	for i, cand := range p.waiters {
		if cand == w {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			p.mu.Unlock()
			return
		}
	}
	p.mu.Unlock()

	select {
	case pc := <-w:
		if pc != nil {
			p.put(pc)
		}
	default:
	}
}

func (p *Pool) recordAcquire(ctx context.Context, start time.Time) {
	p.metrics.RecordAcquireWait(ctx, time.Since(start))
	p.metrics.AddInUse(ctx, 1)
}
