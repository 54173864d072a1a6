package model

import "time"

// Payout request statuses. Requests are created PENDING by the host and
// moved to PAID or REJECTED by an administrator only. A PENDING request
// reserves its amount against the host balance immediately.
const (
	PayoutPending  = "PENDING"
	PayoutPaid     = "PAID"
	PayoutRejected = "REJECTED"
)

// PayoutRequest is a host's request to withdraw accumulated balance. The
// destination bank details are snapshotted from the chosen payout method at
// creation time so later edits to the method do not rewrite history.
type PayoutRequest struct {
	ID            uint64    // payout_requests.id
	HostID        uint64    // payout_requests.host_id
	Amount        int64     // payout_requests.amount
	BankName      string    // payout_requests.bank_name
	AccountName   string    // payout_requests.account_name
	AccountNumber string    // payout_requests.account_number
	Status        string    // payout_requests.status
	CreatedAt     time.Time // payout_requests.created_at
	UpdatedAt     time.Time // payout_requests.updated_at
}

// PayoutMethod is a saved bank destination owned by a host.
type PayoutMethod struct {
	ID            uint64    // payout_methods.id
	HostID        uint64    // payout_methods.host_id
	BankName      string    // payout_methods.bank_name
	AccountName   string    // payout_methods.account_name
	AccountNumber string    // payout_methods.account_number
	IsDefault     bool      // payout_methods.is_default
	CreatedAt     time.Time // payout_methods.created_at
}

// CanTransitionPayout reports whether a payout request may move between
// statuses. Only PENDING requests can change, and only to PAID or REJECTED.
func CanTransitionPayout(from, to string) bool {
	return from == PayoutPending && (to == PayoutPaid || to == PayoutRejected)
}
