// Package ratelimit implements an in-process sliding-window request counter
// keyed by an arbitrary identity string (API key name or client address).
package ratelimit

import (
	"sync"
	"time"
)

// coalesceInterval groups requests arriving close together into one counted
// entry, bounding per-key memory under high request rates.
const coalesceInterval = 60 * time.Second

type entry struct {
	windowStart time.Time
	count       int
}

// Limiter tracks request counts per key over a sliding window. Limits and
// windows are caller-supplied per check so one limiter instance serves every
// endpoint class. State lives only in memory; a restart clears all counters.
type Limiter struct {
	mu       sync.Mutex
	requests map[string][]entry

	now func() time.Time // test hook
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{
		requests: make(map[string][]entry),
		now:      time.Now,
	}
}

// Allow reports whether another request under key fits within limit requests
// per window, and records it if so. A denied request is never charged: the
// admission check and the usage recording are one atomic step under the
// limiter's mutex, so concurrent callers cannot race past the limit.
func (l *Limiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entries := l.pruneLocked(key, now, window)

	total := 0
	for _, e := range entries {
		total += e.count
	}

	if total >= limit {
		l.requests[key] = entries
		return false
	}

	// Coalesce with the newest entry when it is still fresh, otherwise
	// open a new one.
	if n := len(entries); n > 0 && now.Sub(entries[n-1].windowStart) < coalesceInterval {
		entries[n-1].count++
	} else {
		entries = append(entries, entry{windowStart: now, count: 1})
	}
	l.requests[key] = entries

	return true
}

// Usage returns the number of admitted requests currently retained for key
// within the window.
func (l *Limiter) Usage(key string, window time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, e := range l.pruneLocked(key, l.now(), window) {
		total += e.count
	}
	return total
}

// Reset drops all recorded usage for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.requests, key)
}

// pruneLocked returns key's entries whose window start is still inside the
// window. Caller must hold the mutex.
func (l *Limiter) pruneLocked(key string, now time.Time, window time.Duration) []entry {
	cutoff := now.Add(-window)
	recorded := l.requests[key]

	kept := recorded[:0]
	for _, e := range recorded {
		if e.windowStart.After(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}
