package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vigil/internal/event"
)

func TestDebouncerAllowsFirstObservation(t *testing.T) {
	d := NewDebouncer()
	now := time.Now()

	assert.True(t, d.Allow(event.KindFocusLost, now))
}

func TestDebouncerSuppressesWithinCooldown(t *testing.T) {
	d := NewDebouncer()
	now := time.Now()

	assert.True(t, d.Allow(event.KindFocusLost, now))
	assert.False(t, d.Allow(event.KindFocusLost, now.Add(time.Second)))
	assert.False(t, d.Allow(event.KindFocusLost, now.Add(4999*time.Millisecond)))
}

func TestDebouncerAllowsAtCooldownBoundary(t *testing.T) {
	d := NewDebouncer()
	now := time.Now()

	assert.True(t, d.Allow(event.KindFocusLost, now))
	assert.True(t, d.Allow(event.KindFocusLost, now.Add(5*time.Second)))
}

func TestDebouncerAbsenceUsesLongerCooldown(t *testing.T) {
	d := NewDebouncer()
	now := time.Now()

	assert.True(t, d.Allow(event.KindAbsence, now))
	assert.False(t, d.Allow(event.KindAbsence, now.Add(6*time.Second)))
	assert.True(t, d.Allow(event.KindAbsence, now.Add(10*time.Second)))
}

func TestDebouncerTracksKindsIndependently(t *testing.T) {
	d := NewDebouncer()
	now := time.Now()

	assert.True(t, d.Allow(event.KindFocusLost, now))
	assert.True(t, d.Allow(event.KindMultipleFaces, now))
	assert.True(t, d.Allow(event.KindPhoneDetected, now.Add(time.Second)))
	assert.False(t, d.Allow(event.KindFocusLost, now.Add(time.Second)))
}

func TestDebouncerCooldownRestartsOnAllowedEmit(t *testing.T) {
	d := NewDebouncer()
	now := time.Now()

	assert.True(t, d.Allow(event.KindFocusLost, now))
	assert.True(t, d.Allow(event.KindFocusLost, now.Add(5*time.Second)))
	// The window restarts from the second allowed emit, not the first.
	assert.False(t, d.Allow(event.KindFocusLost, now.Add(9*time.Second)))
	assert.True(t, d.Allow(event.KindFocusLost, now.Add(10*time.Second)))
}
