package model

import "time"

// Notification categories mirror the kinds of domain events the consumer
// fans out: booking lifecycle, payout processing, identity verification,
// security events and general system notices.
const (
	NotifySystem       = "SYSTEM"
	NotifyVerification = "VERIFICATION"
	NotifyBooking      = "BOOKING"
	NotifySecurity     = "SECURITY"
	NotifyPayment      = "PAYMENT"
)

// Notification is an informational event targeted at one user. Only the
// recipient may flip the read flag.
type Notification struct {
	ID        uint64    // notifications.id
	UserID    uint64    // notifications.user_id (recipient)
	Category  string    // notifications.category
	Title     string    // notifications.title
	Body      string    // notifications.body
	DeepLink  *string   // notifications.deep_link (nullable)
	IsRead    bool      // notifications.is_read
	CreatedAt time.Time // notifications.created_at
}
