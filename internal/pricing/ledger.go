package pricing

import "errors"

// MinWithdrawal is the smallest payout request a host may submit.
const MinWithdrawal = 1000

// WithdrawablePercent is the share of accumulated host payouts available
// for withdrawal. This 90% haircut applies on top of the platform fee
// already netted out of each booking's host payout; the compounding
// (roughly 81% of gross rental revenue is ultimately withdrawable) is the
// established business rule and must not be "corrected" here.
const WithdrawablePercent = 90

// Withdrawal validation errors.
var (
	ErrBelowMinimum        = errors.New("amount below minimum withdrawal")
	ErrInsufficientBalance = errors.New("amount exceeds available balance")
)

// AvailableBalance computes what a host can withdraw right now.
// totalEarned is the sum of host payouts over confirmed and completed
// bookings; totalWithdrawn is the sum over pending and paid payout
// requests, so a pending request reserves balance before it is marked
// paid. The result is never negative.
func AvailableBalance(totalEarned, totalWithdrawn int64) int64 {
	bal := totalEarned*WithdrawablePercent/100 - totalWithdrawn
	if bal < 0 {
		return 0
	}
	return bal
}

// ValidateWithdrawal checks a requested payout amount against the minimum
// threshold and the available balance.
func ValidateWithdrawal(amount, available int64) error {
	if amount < MinWithdrawal {
		return ErrBelowMinimum
	}
	if amount > available {
		return ErrInsufficientBalance
	}
	return nil
}
