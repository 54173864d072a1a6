package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d := mustDate(t, "2026-06-15")
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.June, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	_, err := ParseDate("15/06/2026")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestValidateRange(t *testing.T) {
	in := mustDate(t, "2026-06-10")
	out := mustDate(t, "2026-06-12")
	assert.NoError(t, ValidateRange(in, out))

	// Zero-night and inverted ranges are invalid input.
	assert.ErrorIs(t, ValidateRange(in, in), ErrInvalidDateRange)
	assert.ErrorIs(t, ValidateRange(out, in), ErrInvalidDateRange)
}

func TestRangeOverlapsHalfOpen(t *testing.T) {
	aIn := mustDate(t, "2026-06-10")
	aOut := mustDate(t, "2026-06-15")

	// Same-day turnover: a stay ending the 15th does not collide with one
	// starting the 15th.
	assert.False(t, RangeOverlaps(aIn, aOut, mustDate(t, "2026-06-15"), mustDate(t, "2026-06-18")))
	assert.False(t, RangeOverlaps(mustDate(t, "2026-06-15"), mustDate(t, "2026-06-18"), aIn, aOut))

	// One shared night is a conflict.
	assert.True(t, RangeOverlaps(aIn, aOut, mustDate(t, "2026-06-14"), mustDate(t, "2026-06-16")))
	// Containment both ways.
	assert.True(t, RangeOverlaps(aIn, aOut, mustDate(t, "2026-06-11"), mustDate(t, "2026-06-12")))
	assert.True(t, RangeOverlaps(mustDate(t, "2026-06-11"), mustDate(t, "2026-06-12"), aIn, aOut))
	// Identical ranges.
	assert.True(t, RangeOverlaps(aIn, aOut, aIn, aOut))
	// Fully before / fully after.
	assert.False(t, RangeOverlaps(aIn, aOut, mustDate(t, "2026-06-01"), mustDate(t, "2026-06-10")))
	assert.False(t, RangeOverlaps(aIn, aOut, mustDate(t, "2026-06-20"), mustDate(t, "2026-06-22")))
}

func TestRangeOverlapsIgnoresTimeOfDay(t *testing.T) {
	// Timestamps inside the same days must not change the verdict.
	aIn := time.Date(2026, 6, 10, 23, 59, 0, 0, time.UTC)
	aOut := time.Date(2026, 6, 15, 0, 1, 0, 0, time.UTC)
	bIn := time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)
	bOut := time.Date(2026, 6, 18, 12, 0, 0, 0, time.UTC)
	assert.False(t, RangeOverlaps(aIn, aOut, bIn, bOut))
}

func TestNightsBetween(t *testing.T) {
	assert.Equal(t, 2, NightsBetween(mustDate(t, "2026-06-10"), mustDate(t, "2026-06-12")))
	assert.Equal(t, 1, NightsBetween(mustDate(t, "2026-06-10"), mustDate(t, "2026-06-11")))
	// Floored at one for degenerate input.
	assert.Equal(t, 1, NightsBetween(mustDate(t, "2026-06-10"), mustDate(t, "2026-06-10")))
	assert.Equal(t, 1, NightsBetween(mustDate(t, "2026-06-12"), mustDate(t, "2026-06-10")))
}
