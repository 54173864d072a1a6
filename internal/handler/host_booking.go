package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/queue"
	"github.com/iliyamo/homestay-booking/internal/repository"
	"github.com/iliyamo/homestay-booking/internal/service"
)

// HostBookingHandler covers a host's side of the booking lifecycle:
// accepting or rejecting pending requests and listing bookings across
// their listings. Acceptance re-validates the calendar inside the same
// transaction as the status write, so two overlapping PENDING requests
// can never both become CONFIRMED.
type HostBookingHandler struct {
	Listings *repository.ListingRepo
	Bookings *repository.BookingRepo
}

func NewHostBookingHandler(l *repository.ListingRepo, b *repository.BookingRepo) *HostBookingHandler {
	if l == nil || b == nil {
		panic("nil repository passed to NewHostBookingHandler")
	}
	return &HostBookingHandler{Listings: l, Bookings: b}
}

// Accept handles POST /v1/host/bookings/:id/accept. The booking row is
// locked, the calendar re-checked excluding this booking, and the
// PENDING to CONFIRMED transition applied as a compare-and-set.
func (h *HostBookingHandler) Accept(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := h.Bookings.GetByIDTx(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.HostID != hostID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status != model.BookingPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
	}
	// The calendar may have changed since the request was made; another
	// overlapping booking could have been confirmed in the meantime.
	conflict, err := h.Bookings.HasConflictTx(ctx, tx, b.ListingID, b.CheckIn, b.CheckOut, b.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if conflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "these dates are no longer available"})
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingPending, model.BookingConfirmed); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking state changed, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	_ = service.PublishEvent(ctx, queue.DomainEvent{
		Kind:          queue.EventBookingConfirmed,
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		ListingID:     b.ListingID,
		ListingTitle:  b.ListingTitle,
		GuestID:       b.GuestID,
		HostID:        b.HostID,
		Amount:        b.TotalPrice,
		Status:        model.BookingConfirmed,
		CheckIn:       b.CheckIn.Format(model.DateLayout),
		CheckOut:      b.CheckOut.Format(model.DateLayout),
	})
	b.Status = model.BookingConfirmed
	return c.JSON(http.StatusOK, toBookingView(b))
}

// Reject handles POST /v1/host/bookings/:id/reject. Rejection is the
// PENDING to CANCELLED transition initiated by the host.
func (h *HostBookingHandler) Reject(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.HostID != hostID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if b.Status != model.BookingPending {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
	}
	if err := h.Bookings.UpdateStatus(ctx, b.ID, model.BookingPending, model.BookingCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking state changed, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	_ = service.PublishEvent(ctx, queue.DomainEvent{
		Kind:          queue.EventBookingCancelled,
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		ListingID:     b.ListingID,
		ListingTitle:  b.ListingTitle,
		GuestID:       b.GuestID,
		HostID:        b.HostID,
		Status:        model.BookingCancelled,
	})
	b.Status = model.BookingCancelled
	return c.JSON(http.StatusOK, toBookingView(b))
}

// ListMine handles GET /v1/host/bookings, all bookings across the host's
// listings. An optional status query parameter filters by effective
// status.
func (h *HostBookingHandler) ListMine(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByHost(c.Request().Context(), hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	views := toBookingViews(items)
	if want := c.QueryParam("status"); want != "" {
		filtered := make([]bookingView, 0, len(views))
		for _, v := range views {
			if v.Status == want {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// ListForListing handles GET /v1/host/listings/:id/bookings. Ownership is
// checked on the listing row before any bookings are read, so probing
// another host's listing is rejected even when it has no bookings. GetByID
// still resolves deleted listings, keeping their history reachable.
func (h *HostBookingHandler) ListForListing(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx := c.Request().Context()
	l, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if l.HostID != hostID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	items, err := h.Bookings.ListByListing(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toBookingViews(items)})
}
