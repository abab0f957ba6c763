package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AdmitsExactlyLimit(t *testing.T) {
	limiter := New()

	for i := 0; i < 20; i++ {
		require.True(t, limiter.Allow("auth:1.2.3.4", 20, time.Hour), "request %d should be admitted", i+1)
	}

	assert.False(t, limiter.Allow("auth:1.2.3.4", 20, time.Hour), "21st request should be denied")
	assert.False(t, limiter.Allow("auth:1.2.3.4", 20, time.Hour), "22nd request should be denied")
}

func TestLimiter_DenialIsNotCharged(t *testing.T) {
	limiter := New()

	for i := 0; i < 5; i++ {
		limiter.Allow("k", 5, time.Hour)
	}
	assert.Equal(t, 5, limiter.Usage("k", time.Hour))

	// Denied requests leave the recorded usage untouched
	for i := 0; i < 10; i++ {
		assert.False(t, limiter.Allow("k", 5, time.Hour))
	}
	assert.Equal(t, 5, limiter.Usage("k", time.Hour))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	limiter := New()

	for i := 0; i < 5; i++ {
		limiter.Allow("a", 5, time.Hour)
	}
	assert.False(t, limiter.Allow("a", 5, time.Hour))
	assert.True(t, limiter.Allow("b", 5, time.Hour))
}

func TestLimiter_WindowRollover(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := New()
	limiter.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		limiter.Allow("k", 5, time.Hour)
	}
	assert.False(t, limiter.Allow("k", 5, time.Hour))

	// Just past the window: the old usage ages out
	current = current.Add(time.Hour + time.Second)
	assert.True(t, limiter.Allow("k", 5, time.Hour))
	assert.Equal(t, 1, limiter.Usage("k", time.Hour))
}

func TestLimiter_CoalescesCloseRequests(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := New()
	limiter.now = func() time.Time { return current }

	// Requests inside the coalescing interval share one entry
	for i := 0; i < 10; i++ {
		limiter.Allow("k", 100, time.Hour)
		current = current.Add(time.Second)
	}
	assert.Len(t, limiter.requests["k"], 1)
	assert.Equal(t, 10, limiter.Usage("k", time.Hour))

	// One past the interval opens a new entry; the count is preserved
	current = current.Add(coalesceInterval)
	limiter.Allow("k", 100, time.Hour)
	assert.Len(t, limiter.requests["k"], 2)
	assert.Equal(t, 11, limiter.Usage("k", time.Hour))
}

func TestLimiter_Reset(t *testing.T) {
	limiter := New()

	for i := 0; i < 5; i++ {
		limiter.Allow("k", 5, time.Hour)
	}
	assert.False(t, limiter.Allow("k", 5, time.Hour))

	limiter.Reset("k")
	assert.True(t, limiter.Allow("k", 5, time.Hour))
}
