// Package queue defines the domain events exchanged over the message broker
// and the consumer that folds them into user-visible notifications. The rest
// of the application treats the broker as an ordered stream of insert/update
// events; nothing in the domain layer assumes a particular transport.
package queue

// Event kinds published by handlers.
const (
	EventBookingCreated       = "booking.created"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingCancelled     = "booking.cancelled"
	EventPayoutProcessed      = "payout.processed"
	EventVerificationReviewed = "verification.reviewed"
)

// DomainEvent is the envelope published for every domain occurrence worth a
// notification. It carries enough denormalized information for the consumer
// to write notification rows and send email without querying back into the
// request path. Zero-valued fields are simply absent for that kind.
type DomainEvent struct {
	Kind          string `json:"kind"`
	BookingID     uint64 `json:"booking_id,omitempty"`
	ReferenceCode string `json:"reference_code,omitempty"`
	PayoutID      uint64 `json:"payout_id,omitempty"`
	ListingID     uint64 `json:"listing_id,omitempty"`
	ListingTitle  string `json:"listing_title,omitempty"`
	GuestID       uint64 `json:"guest_id,omitempty"`
	HostID        uint64 `json:"host_id,omitempty"`
	UserID        uint64 `json:"user_id,omitempty"` // affected user for payout/verification events
	Amount        int64  `json:"amount,omitempty"`
	Status        string `json:"status,omitempty"`
	CheckIn       string `json:"check_in,omitempty"`
	CheckOut      string `json:"check_out,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
