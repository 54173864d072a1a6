package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPlatformFeeRoundsHalfUp(t *testing.T) {
	cases := []struct {
		subtotal int64
		fee      int64
	}{
		{0, 0},
		{100, 10},
		{105, 11}, // 10.5 rounds up
		{104, 10}, // 10.4 rounds down
		{99999, 10000},
		{33333 * 3, 10000}, // 99999 again, via three nights at 33333
		{1, 0},             // 0.1 rounds down
		{5, 1},             // 0.5 rounds up
	}
	for _, c := range cases {
		assert.Equal(t, c.fee, PlatformFee(c.subtotal), "subtotal=%d", c.subtotal)
	}
}

func TestFeePlusPayoutEqualsSubtotal(t *testing.T) {
	// The split must be exact for any subtotal: fee and payout always
	// reassemble into the subtotal with no unit lost or created.
	for subtotal := int64(0); subtotal < 10000; subtotal++ {
		fee := PlatformFee(subtotal)
		payout := subtotal - fee
		require.Equal(t, subtotal, fee+payout)
	}
}

func TestComputeBreakdown(t *testing.T) {
	q := Compute(50000, day("2026-06-01"), day("2026-06-04"), 20000)

	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, int64(150000), q.Subtotal)
	assert.Equal(t, int64(20000), q.Deposit)
	assert.Equal(t, int64(170000), q.Total)
	assert.Equal(t, int64(15000), q.PlatformFee)
	assert.Equal(t, int64(135000), q.HostPayout)
}

func TestComputeDepositIsFeeExempt(t *testing.T) {
	with := Compute(40000, day("2026-03-10"), day("2026-03-12"), 99999)
	without := Compute(40000, day("2026-03-10"), day("2026-03-12"), 0)

	// The deposit changes only the guest-facing total, never the fee split.
	assert.Equal(t, without.PlatformFee, with.PlatformFee)
	assert.Equal(t, without.HostPayout, with.HostPayout)
	assert.Equal(t, without.Total+99999, with.Total)
}

func TestComputeFloorsNightsAtOne(t *testing.T) {
	// A degenerate range still prices at least one night.
	q := Compute(30000, day("2026-05-05"), day("2026-05-05"), 0)
	assert.Equal(t, 1, q.Nights)
	assert.Equal(t, int64(30000), q.Subtotal)

	q = Compute(30000, day("2026-05-05"), day("2026-05-01"), 0)
	assert.Equal(t, 1, q.Nights)
}

func TestComputeOddNightlyRate(t *testing.T) {
	// 3 nights at 33333 = 99999; 10% = 9999.9 rounds up to 10000.
	q := Compute(33333, day("2026-07-01"), day("2026-07-04"), 0)
	assert.Equal(t, int64(99999), q.Subtotal)
	assert.Equal(t, int64(10000), q.PlatformFee)
	assert.Equal(t, int64(89999), q.HostPayout)
	assert.Equal(t, q.Subtotal, q.PlatformFee+q.HostPayout)
}
