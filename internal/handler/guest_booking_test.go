package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/homestay-booking/internal/model"
)

func TestSameGuestReplayReturnsOwnBooking(t *testing.T) {
	b := model.Booking{ID: 10, GuestID: 7}
	assert.True(t, sameGuestReplay(b, 7))
}

func TestReplayFromAnotherAccountIsNotVisible(t *testing.T) {
	b := model.Booking{ID: 10, GuestID: 7}
	assert.False(t, sameGuestReplay(b, 8))
	assert.False(t, sameGuestReplay(b, 0))
}
