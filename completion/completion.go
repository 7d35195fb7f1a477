// Package completion implements the one-shot start/end latch carrying a
// terminal status (spec component C3), used by long-running background
// workers (C8's puller, C9's decoder driver) to let a caller wait for
// shutdown with a timeout.
package completion

import (
	"sync"
	"time"

	"github.com/packetstream/client-go/status"
)

// Signal is a latch that begins completed (no work), is cleared by Start,
// and is set again by End with a terminal status.
type Signal struct {
	mu        sync.Mutex
	cond      *sync.Cond
	completed bool
	status    *status.Status
}

// New creates a Signal that is initially completed.
func New() *Signal {
	s := &Signal{completed: true, status: status.OK()}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Start clears the signal, marking a new run cycle as in progress. It is
// idempotent: starting an already-started signal is a no-op.
func (s *Signal) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = false
}

// End marks the signal completed with the given terminal status and wakes
// any waiters. It is idempotent: ending an already-ended signal is a no-op.
func (s *Signal) End(st *status.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completed {
		return
	}
	s.completed = true
	s.status = st
	s.cond.Broadcast()
}

// SetStatus updates the terminal status. Intended to be called only by the
// producing side, before or as part of End.
func (s *Signal) SetStatus(st *status.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

// GetStatus returns the current status. It is well defined to call this at
// any time, but the caller is responsible for only trusting its value as
// terminal once WaitUntilCompleted has returned true.
func (s *Signal) GetStatus() *status.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// IsCompleted reports whether the signal is currently completed.
func (s *Signal) IsCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// WaitUntilCompleted blocks until the signal is ended or timeout elapses.
// Returns true iff the signal completed within timeout.
func (s *Signal) WaitUntilCompleted(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.completed {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		timer := time.AfterFunc(remaining, func() {
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		})
		s.cond.Wait()
		timer.Stop()
	}
	return true
}
