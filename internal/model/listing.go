package model

import "time"

// Listing statuses. A listing is only bookable while ACTIVE. DELETED rows
// are kept so historical bookings can still join against them; bookings
// additionally carry denormalized display fields in case the row is purged.
const (
	ListingActive  = "ACTIVE"
	ListingDeleted = "DELETED"
)

// Listing is a bookable unit published by a host. NightlyPrice and Deposit
// are whole-currency-unit integers. Amenities and HouseRules are stored as
// JSON arrays in the row; Images is a JSON array of object-storage URLs.
type Listing struct {
	ID           uint64    // listings.id
	HostID       uint64    // listings.host_id
	Title        string    // listings.title
	Description  string    // listings.description
	Location     string    // listings.location
	NightlyPrice int64     // listings.nightly_price
	MaxGuests    int       // listings.max_guests
	Deposit      int64     // listings.deposit (0 = none)
	Amenities    []string  // listings.amenities (JSON)
	HouseRules   []string  // listings.house_rules (JSON)
	Images       []string  // listings.images (JSON)
	VideoURL     *string   // listings.video_url (nullable)
	Status       string    // listings.status
	CreatedAt    time.Time // listings.created_at
	UpdatedAt    time.Time // listings.updated_at
}

// Favorite marks a listing saved by a user.
type Favorite struct {
	ID        uint64    // favorites.id
	UserID    uint64    // favorites.user_id
	ListingID uint64    // favorites.listing_id
	CreatedAt time.Time // favorites.created_at
}
