// Package backoff implements the exponential backoff used between retries
// of a fallible operation, mirroring aistreams' ExponentialBackoff
// (aistreams/base/util/exponential_backoff.h in the original source).
package backoff

import "time"

// Backoff tracks a growing wait time between retries of an operation.
// It is not safe for concurrent use by multiple goroutines.
type Backoff struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	current    time.Duration
}

// New creates a Backoff. multiplier must be >= 1.
func New(initial, max time.Duration, multiplier float64) *Backoff {
	if multiplier < 1 {
		multiplier = 1
	}
	return &Backoff{
		initial:    initial,
		max:        max,
		multiplier: multiplier,
		current:    initial,
	}
}

// Next returns the wait time for the next call and advances the internal
// state towards max.
func (b *Backoff) Next() time.Duration {
	wait := b.current
	if wait > b.max {
		wait = b.max
	}
	grown := time.Duration(float64(b.current) * b.multiplier)
	if grown > b.max {
		grown = b.max
	}
	b.current = grown
	return wait
}

// Reset restores the backoff to its initial wait time.
func (b *Backoff) Reset() {
	b.current = b.initial
}
