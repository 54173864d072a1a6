package model

// dates.go holds the day-granular date helpers shared by the availability
// check, the pricing quote and the booking handlers. Stay dates are half-open
// ranges [check_in, check_out): the checkout day itself is free, which is
// what allows a same-day turnover (guest A leaves, guest B arrives) without
// being flagged as a conflict.

import (
	"errors"
	"time"
)

// DateLayout is the wire and DB format for stay dates. Time-of-day is
// ignored everywhere; dates are normalized to midnight UTC.
const DateLayout = "2006-01-02"

// ErrInvalidDateRange is returned when a candidate range is malformed,
// including the zero-night case where check-in equals check-out.
var ErrInvalidDateRange = errors.New("invalid date range")

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// DayOf truncates a timestamp to day granularity in UTC.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateRange checks that checkIn and checkOut form a bookable range.
// Zero-night ranges are rejected as invalid input, not reported as
// "available".
func ValidateRange(checkIn, checkOut time.Time) error {
	if !DayOf(checkIn).Before(DayOf(checkOut)) {
		return ErrInvalidDateRange
	}
	return nil
}

// RangeOverlaps reports whether two half-open date ranges intersect.
// Touching endpoints (a ends the day b starts) do not overlap.
func RangeOverlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return DayOf(aIn).Before(DayOf(bOut)) && DayOf(aOut).After(DayOf(bIn))
}

// NightsBetween returns the number of nights in [checkIn, checkOut),
// floored at one. The floor is a deliberate policy: malformed input must
// never produce a zero or negative night count downstream of validation.
func NightsBetween(checkIn, checkOut time.Time) int {
	n := int(DayOf(checkOut).Sub(DayOf(checkIn)).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}
