package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockoutTracker_LocksAfterThreshold(t *testing.T) {
	tracker := NewLockoutTracker(5*time.Minute, 5)

	for i := 0; i < 4; i++ {
		tracker.RecordFailure("1.2.3.4")
		assert.False(t, tracker.IsLockedOut("1.2.3.4"), "should not lock before threshold")
	}

	tracker.RecordFailure("1.2.3.4")
	assert.True(t, tracker.IsLockedOut("1.2.3.4"), "fifth failure should lock")
}

func TestLockoutTracker_IdentitiesAreIndependent(t *testing.T) {
	tracker := NewLockoutTracker(5*time.Minute, 5)

	for i := 0; i < 5; i++ {
		tracker.RecordFailure("1.2.3.4")
	}

	assert.True(t, tracker.IsLockedOut("1.2.3.4"))
	assert.False(t, tracker.IsLockedOut("5.6.7.8"))
}

func TestLockoutTracker_WindowExpiry(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewLockoutTracker(5*time.Minute, 5)
	tracker.now = func() time.Time { return current }

	for i := 0; i < 5; i++ {
		tracker.RecordFailure("1.2.3.4")
	}
	assert.True(t, tracker.IsLockedOut("1.2.3.4"))

	// Advance past the window: every failure ages out
	current = current.Add(5*time.Minute + time.Second)
	assert.False(t, tracker.IsLockedOut("1.2.3.4"))
	assert.Equal(t, 0, tracker.Failures("1.2.3.4"))
}

func TestLockoutTracker_PartialExpiry(t *testing.T) {
	current := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewLockoutTracker(5*time.Minute, 5)
	tracker.now = func() time.Time { return current }

	// Three early failures, then two more four minutes later
	for i := 0; i < 3; i++ {
		tracker.RecordFailure("1.2.3.4")
	}
	current = current.Add(4 * time.Minute)
	tracker.RecordFailure("1.2.3.4")
	tracker.RecordFailure("1.2.3.4")
	assert.True(t, tracker.IsLockedOut("1.2.3.4"))

	// Ninety seconds later the first three have aged out
	current = current.Add(90 * time.Second)
	assert.Equal(t, 2, tracker.Failures("1.2.3.4"))
	assert.False(t, tracker.IsLockedOut("1.2.3.4"))
}

func TestLockoutTracker_ClearResets(t *testing.T) {
	tracker := NewLockoutTracker(5*time.Minute, 5)

	for i := 0; i < 5; i++ {
		tracker.RecordFailure("1.2.3.4")
	}
	assert.True(t, tracker.IsLockedOut("1.2.3.4"))

	tracker.Clear("1.2.3.4")
	assert.False(t, tracker.IsLockedOut("1.2.3.4"))
	assert.Equal(t, 0, tracker.Failures("1.2.3.4"))

	// Clearing an unknown identity is a no-op
	tracker.Clear("1.2.3.4")
	tracker.Clear("never-seen")
}
