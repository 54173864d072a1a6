package model

import "time"

// Review is a guest's rating of a listing after a completed stay. One
// review per booking.
type Review struct {
	ID        uint64    // reviews.id
	ListingID uint64    // reviews.listing_id
	BookingID uint64    // reviews.booking_id
	GuestID   uint64    // reviews.guest_id
	Rating    int       // reviews.rating (1..5)
	Comment   string    // reviews.comment
	CreatedAt time.Time // reviews.created_at
}
