package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/homestay-booking/internal/model"
)

func TestParseDateRange(t *testing.T) {
	in, out, err := parseDateRange("2026-06-10", "2026-06-12")
	require.NoError(t, err)
	assert.Equal(t, "2026-06-10", in.Format(model.DateLayout))
	assert.Equal(t, "2026-06-12", out.Format(model.DateLayout))

	// Whitespace around the values is tolerated.
	_, _, err = parseDateRange(" 2026-06-10 ", "2026-06-12")
	assert.NoError(t, err)

	// Garbage, zero-night and inverted ranges all fail.
	_, _, err = parseDateRange("junk", "2026-06-12")
	assert.Error(t, err)
	_, _, err = parseDateRange("2026-06-10", "2026-06-10")
	assert.Error(t, err)
	_, _, err = parseDateRange("2026-06-12", "2026-06-10")
	assert.Error(t, err)
}

func TestToBookingViewEffectiveStatus(t *testing.T) {
	past := model.Booking{
		Status:   model.BookingConfirmed,
		CheckIn:  time.Now().UTC().AddDate(0, 0, -10),
		CheckOut: time.Now().UTC().AddDate(0, 0, -7),
	}
	future := model.Booking{
		Status:   model.BookingConfirmed,
		CheckIn:  time.Now().UTC().AddDate(0, 0, 7),
		CheckOut: time.Now().UTC().AddDate(0, 0, 10),
	}
	assert.Equal(t, model.BookingCompleted, toBookingView(past).Status)
	assert.Equal(t, model.BookingConfirmed, toBookingView(future).Status)
}

func TestNewReferenceCode(t *testing.T) {
	a := newReferenceCode()
	b := newReferenceCode()
	assert.True(t, strings.HasPrefix(a, "HB-"))
	assert.Len(t, a, 11)
	assert.Equal(t, strings.ToUpper(a), a)
	assert.NotEqual(t, a, b)
}
