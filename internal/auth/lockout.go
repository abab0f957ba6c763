package auth

import (
	"sync"
	"time"
)

// LockoutTracker records failed authentication timestamps per client identity
// and derives a locked/unlocked state from them. It answers boolean queries
// only and never fails; accuracy depends on a monotonically advancing wall
// clock (a rollback can shorten an effective lockout).
type LockoutTracker struct {
	mu          sync.Mutex
	window      time.Duration
	maxFailures int
	failures    map[string][]time.Time

	now func() time.Time // test hook
}

// NewLockoutTracker creates a tracker with the given window and threshold.
func NewLockoutTracker(window time.Duration, maxFailures int) *LockoutTracker {
	return &LockoutTracker{
		window:      window,
		maxFailures: maxFailures,
		failures:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// RecordFailure appends a failure timestamp for the identity.
func (t *LockoutTracker) RecordFailure(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.failures[identity] = append(t.pruneLocked(identity, now), now)
}

// IsLockedOut reports whether the identity has reached the failure threshold
// within the window. Expired entries are pruned before counting.
func (t *LockoutTracker) IsLockedOut(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.pruneLocked(identity, t.now())
	if len(recent) == 0 {
		delete(t.failures, identity)
		return false
	}
	t.failures[identity] = recent
	return len(recent) >= t.maxFailures
}

// Clear removes all recorded failures for the identity. One successful
// authentication fully resets the counter; clearing twice is a no-op.
func (t *LockoutTracker) Clear(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.failures, identity)
}

// Failures returns the current in-window failure count for the identity.
func (t *LockoutTracker) Failures(identity string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pruneLocked(identity, t.now()))
}

// pruneLocked returns the identity's failures still inside the window.
// Caller must hold the mutex.
func (t *LockoutTracker) pruneLocked(identity string, now time.Time) []time.Time {
	cutoff := now.Add(-t.window)
	recorded := t.failures[identity]

	recent := recorded[:0]
	for _, ts := range recorded {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}
