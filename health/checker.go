package health

import (
	"context"
	"time"
)

// Status is the outcome class of a check.
type Status int

const (
	// StatusHealthy means the component is fully operational.
	StatusHealthy Status = iota

	// StatusDegraded means the component works but below its configured
	// capacity.
	StatusDegraded

	// StatusUnhealthy means the component cannot serve.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result is the outcome of one check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Elapsed time.Duration
	Err     error
}

// Checker probes one dependency.
//
// Contract:
// - Check must honor ctx and return promptly on cancellation; the
//   aggregator enforces an overall deadline.
type Checker interface {
	// Name identifies the dependency being checked.
	Name() string

	// Check probes the dependency.
	Check(ctx context.Context) Result
}

// CheckFunc adapts a function into a named Checker.
type CheckFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckFunc wraps fn as a Checker.
func NewCheckFunc(name string, fn func(context.Context) Result) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (c *CheckFunc) Name() string { return c.name }

func (c *CheckFunc) Check(ctx context.Context) Result {
	r := c.fn(ctx)
	r.Name = c.name
	return r
}

var _ Checker = (*CheckFunc)(nil)
