package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableBalance(t *testing.T) {
	// 90% of earnings is withdrawable; pending and paid requests both
	// reduce it immediately.
	assert.Equal(t, int64(900000), AvailableBalance(1000000, 0))
	assert.Equal(t, int64(700000), AvailableBalance(1000000, 200000))
	assert.Equal(t, int64(0), AvailableBalance(0, 0))
}

func TestAvailableBalanceNeverNegative(t *testing.T) {
	// More withdrawn than currently withdrawable (possible after a large
	// booking is cancelled post-payout) clamps to zero.
	assert.Equal(t, int64(0), AvailableBalance(100000, 95000))
	assert.Equal(t, int64(0), AvailableBalance(0, 50000))
}

func TestValidateWithdrawal(t *testing.T) {
	assert.NoError(t, ValidateWithdrawal(1000, 1000))
	assert.NoError(t, ValidateWithdrawal(700000, 700000))

	assert.ErrorIs(t, ValidateWithdrawal(999, 700000), ErrBelowMinimum)
	assert.ErrorIs(t, ValidateWithdrawal(0, 700000), ErrBelowMinimum)
	assert.ErrorIs(t, ValidateWithdrawal(700001, 700000), ErrInsufficientBalance)
}

func TestWithdrawalScenario(t *testing.T) {
	// A host has earned 1,000,000 and has a 200,000 request pending.
	available := AvailableBalance(1000000, 200000)
	assert.Equal(t, int64(700000), available)

	// A further 750,000 exceeds what remains; 700,000 exactly is fine.
	assert.ErrorIs(t, ValidateWithdrawal(750000, available), ErrInsufficientBalance)
	assert.NoError(t, ValidateWithdrawal(700000, available))
}
