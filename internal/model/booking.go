package model

import "time"

// Booking statuses. PENDING and CONFIRMED are "holding" statuses: a booking
// in either state blocks its date range on the listing calendar. CANCELLED
// and COMPLETED are terminal.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Booking records a guest's reservation of a listing for a date range.
// Pricing fields (TotalPrice, PlatformFee, HostPayout, Deposit) are fixed at
// creation time and never recomputed. HostID plus the listing title and
// location are denormalized from the listing at creation so history survives
// an admin deleting the listing.
//
// Fields:
//  ID              – primary key identifier.
//  ReferenceCode   – opaque code shown to guest and host.
//  ListingID       – listing being booked.
//  ListingTitle    – listing title snapshot.
//  ListingLocation – listing location snapshot.
//  GuestID         – user who made the booking.
//  HostID          – listing owner at creation time.
//  CheckIn         – first night (inclusive).
//  CheckOut        – checkout day (exclusive).
//  Guests          – guest count, validated against the listing maximum.
//  TotalPrice      – guest-facing amount (rental subtotal + deposit).
//  PlatformFee     – commission on the rental subtotal.
//  HostPayout      – subtotal minus platform fee.
//  Deposit         – refundable security deposit held with the booking.
//  Status          – lifecycle state (see constants above).
//  PaymentRef      – client-supplied payment reference (nullable, unique).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	ReferenceCode   string    // bookings.reference_code
	ListingID       uint64    // bookings.listing_id
	ListingTitle    string    // bookings.listing_title
	ListingLocation string    // bookings.listing_location
	GuestID         uint64    // bookings.guest_id
	HostID          uint64    // bookings.host_id
	CheckIn         time.Time // bookings.check_in (DATE)
	CheckOut        time.Time // bookings.check_out (DATE)
	Guests          int       // bookings.guests
	TotalPrice      int64     // bookings.total_price
	PlatformFee     int64     // bookings.platform_fee
	HostPayout      int64     // bookings.host_payout
	Deposit         int64     // bookings.deposit
	Status          string    // bookings.status
	PaymentRef      *string   // bookings.payment_ref (nullable)
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}

// HoldingStatuses are the statuses that block a listing's calendar.
var HoldingStatuses = []string{BookingPending, BookingConfirmed}

// CanTransition reports whether a booking may move from one status to
// another. Terminal states admit no transitions; everything else follows
// the lifecycle pending -> confirmed -> (cancelled | completed), with
// pending -> cancelled for guest withdrawal or host rejection.
func CanTransition(from, to string) bool {
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCancelled || to == BookingCompleted
	default:
		return false
	}
}

// IsHolding reports whether a status blocks the listing calendar.
func IsHolding(status string) bool {
	return status == BookingPending || status == BookingConfirmed
}

// EffectiveStatus resolves the lazily-evaluated completion rule: a booking
// still stored as CONFIRMED whose checkout day has passed is logically
// COMPLETED for display and earnings purposes, even though no background job
// rewrites the row.
func EffectiveStatus(status string, checkOut, now time.Time) string {
	if status == BookingConfirmed && !DayOf(checkOut).After(DayOf(now)) {
		return BookingCompleted
	}
	return status
}
