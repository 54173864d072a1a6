// Package pricing implements the booking price model and the host
// settlement arithmetic. All amounts are whole-currency-unit int64 values;
// there are no fractional minor units in this domain. Every function here
// is pure so the rules can be tested without a database.
package pricing

import (
	"time"

	"github.com/iliyamo/homestay-booking/internal/model"
)

// PlatformFeePercent is the flat commission taken on rental revenue. The
// security deposit is fee-exempt: it is refundable pass-through, not
// revenue.
const PlatformFeePercent = 10

// Quote is the price breakdown for a candidate booking. Total is the
// guest-facing charge (subtotal plus deposit); HostPayout plus PlatformFee
// always equals Subtotal exactly.
type Quote struct {
	Nights      int   `json:"nights"`
	Subtotal    int64 `json:"subtotal"`
	Deposit     int64 `json:"deposit"`
	Total       int64 `json:"total"`
	PlatformFee int64 `json:"platform_fee"`
	HostPayout  int64 `json:"host_payout"`
}

// PlatformFee computes the commission on a rental subtotal, rounding half
// up to the nearest whole unit.
func PlatformFee(subtotal int64) int64 {
	return (subtotal*PlatformFeePercent + 50) / 100
}

// Compute builds the quote for a stay. Nights is floored at one: the floor
// guards against malformed date input producing a zero or negative night
// count, and is a deliberate policy rather than an accident.
func Compute(nightlyRate int64, checkIn, checkOut time.Time, deposit int64) Quote {
	nights := model.NightsBetween(checkIn, checkOut)
	subtotal := int64(nights) * nightlyRate
	fee := PlatformFee(subtotal)
	return Quote{
		Nights:      nights,
		Subtotal:    subtotal,
		Deposit:     deposit,
		Total:       subtotal + deposit,
		PlatformFee: fee,
		HostPayout:  subtotal - fee,
	}
}
