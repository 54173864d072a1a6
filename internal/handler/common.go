package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming helpers
	"time"    // time formats booking dates for responses

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/homestay-booking/internal/model" // model holds domain records
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseDateRange parses and validates check_in/check_out strings as a
// half-open [check_in, check_out) date range.
func parseDateRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := model.ParseDate(strings.TrimSpace(checkIn))
	if err != nil {
		return time.Time{}, time.Time{}, model.ErrInvalidDateRange
	}
	out, err := model.ParseDate(strings.TrimSpace(checkOut))
	if err != nil {
		return time.Time{}, time.Time{}, model.ErrInvalidDateRange
	}
	if err := model.ValidateRange(in, out); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// bookingView is the wire representation of a booking. Status is the
// effective status: CONFIRMED bookings whose checkout has passed render as
// COMPLETED without waiting for a write.
type bookingView struct {
	ID              uint64  `json:"id"`
	ReferenceCode   string  `json:"reference_code"`
	ListingID       uint64  `json:"listing_id"`
	ListingTitle    string  `json:"listing_title"`
	ListingLocation string  `json:"listing_location"`
	GuestID         uint64  `json:"guest_id"`
	HostID          uint64  `json:"host_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Guests          int     `json:"guests"`
	TotalPrice      int64   `json:"total_price"`
	PlatformFee     int64   `json:"platform_fee"`
	HostPayout      int64   `json:"host_payout"`
	Deposit         int64   `json:"deposit"`
	Status          string  `json:"status"`
	PaymentRef      *string `json:"payment_ref,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func toBookingView(b model.Booking) bookingView {
	return bookingView{
		ID:              b.ID,
		ReferenceCode:   b.ReferenceCode,
		ListingID:       b.ListingID,
		ListingTitle:    b.ListingTitle,
		ListingLocation: b.ListingLocation,
		GuestID:         b.GuestID,
		HostID:          b.HostID,
		CheckIn:         b.CheckIn.Format(model.DateLayout),
		CheckOut:        b.CheckOut.Format(model.DateLayout),
		Guests:          b.Guests,
		TotalPrice:      b.TotalPrice,
		PlatformFee:     b.PlatformFee,
		HostPayout:      b.HostPayout,
		Deposit:         b.Deposit,
		Status:          model.EffectiveStatus(b.Status, b.CheckOut, time.Now().UTC()),
		PaymentRef:      b.PaymentRef,
		CreatedAt:       b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookingViews(bs []model.Booking) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingView(b))
	}
	return out
}
