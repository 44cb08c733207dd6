package pool

import "errors"

// Sentinel errors for pool operations.
var (
	// ErrAcquireTimeout is returned when no connection becomes available
	// within the acquire timeout.
	ErrAcquireTimeout = errors.New("pool: acquire timed out")

	// ErrPoolClosed is returned when operating on a closed pool.
	ErrPoolClosed = errors.New("pool: pool is closed")

	// ErrMinExceedsMax is returned when configured bounds are inverted.
	ErrMinExceedsMax = errors.New("pool: min size exceeds max size")
)
