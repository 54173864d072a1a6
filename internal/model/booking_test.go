package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingPending, BookingConfirmed))
	assert.True(t, CanTransition(BookingPending, BookingCancelled))
	assert.True(t, CanTransition(BookingConfirmed, BookingCancelled))
	assert.True(t, CanTransition(BookingConfirmed, BookingCompleted))

	// No shortcut from pending to completed.
	assert.False(t, CanTransition(BookingPending, BookingCompleted))
	// Terminal states admit nothing.
	assert.False(t, CanTransition(BookingCancelled, BookingPending))
	assert.False(t, CanTransition(BookingCancelled, BookingConfirmed))
	assert.False(t, CanTransition(BookingCompleted, BookingCancelled))
	assert.False(t, CanTransition(BookingCompleted, BookingConfirmed))
	// Self transitions are not transitions.
	assert.False(t, CanTransition(BookingConfirmed, BookingConfirmed))
}

func TestIsHolding(t *testing.T) {
	assert.True(t, IsHolding(BookingPending))
	assert.True(t, IsHolding(BookingConfirmed))
	assert.False(t, IsHolding(BookingCancelled))
	assert.False(t, IsHolding(BookingCompleted))
}

func TestEffectiveStatus(t *testing.T) {
	checkOut := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	before := time.Date(2026, 6, 14, 23, 0, 0, 0, time.UTC)
	onDay := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	after := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	// Still confirmed while the stay runs; completed from checkout day on.
	assert.Equal(t, BookingConfirmed, EffectiveStatus(BookingConfirmed, checkOut, before))
	assert.Equal(t, BookingCompleted, EffectiveStatus(BookingConfirmed, checkOut, onDay))
	assert.Equal(t, BookingCompleted, EffectiveStatus(BookingConfirmed, checkOut, after))

	// Only CONFIRMED is subject to lazy completion.
	assert.Equal(t, BookingPending, EffectiveStatus(BookingPending, checkOut, after))
	assert.Equal(t, BookingCancelled, EffectiveStatus(BookingCancelled, checkOut, after))
	assert.Equal(t, BookingCompleted, EffectiveStatus(BookingCompleted, checkOut, after))
}
