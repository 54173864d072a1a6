package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // payment reference normalization
	"time"     // effective-status clock and timeouts

	"github.com/google/uuid"      // booking reference codes
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/homestay-booking/internal/model"      // domain records
	"github.com/iliyamo/homestay-booking/internal/pricing"    // price model
	"github.com/iliyamo/homestay-booking/internal/queue"      // domain events
	"github.com/iliyamo/homestay-booking/internal/repository" // repository layer
	"github.com/iliyamo/homestay-booking/internal/service"    // event publishing
)

// GuestHandler groups repositories for guest-side booking operations:
// quoting, creating, cancelling and listing bookings. JWT authentication
// and role validation are assumed to have run in middleware. Booking
// creation runs inside a transaction that locks the listing row so the
// availability check and the insert observe the same calendar state.
type GuestHandler struct {
	Listings *repository.ListingRepo
	Bookings *repository.BookingRepo
}

func NewGuestHandler(l *repository.ListingRepo, b *repository.BookingRepo) *GuestHandler {
	if l == nil || b == nil {
		panic("nil repository passed to NewGuestHandler")
	}
	return &GuestHandler{Listings: l, Bookings: b}
}

// Quote handles GET /v1/listings/:id/quote. It prices a candidate stay
// without reserving anything. check_in and check_out are required query
// parameters in YYYY-MM-DD form.
func (h *GuestHandler) Quote(c echo.Context) error {
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	checkIn, checkOut, err := parseDateRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be YYYY-MM-DD with check_out after check_in"})
	}
	l, err := h.Listings.GetActive(c.Request().Context(), listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, pricing.Compute(l.NightlyPrice, checkIn, checkOut, l.Deposit))
}

type createBookingReq struct {
	ListingID  uint64 `json:"listing_id" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
	Guests     int    `json:"guests" validate:"required,min=1"`
	PaymentRef string `json:"payment_ref"` // optional idempotency key from the payment flow
}

// Create handles POST /v1/bookings. Paid bookings (payment_ref present)
// prefer the atomic process_booking_payment procedure; when the schema does
// not define it, and always for unpaid requests, the handler uses a guarded
// insert that locks the listing row, re-checks the calendar and inserts in
// one transaction. Repeating a request with the same payment_ref returns
// the original booking instead of creating a duplicate.
func (h *GuestHandler) Create(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	checkIn, checkOut, err := parseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in and check_out must be YYYY-MM-DD with check_out after check_in"})
	}

	ctx := c.Request().Context()

	var paymentRef *string
	if ref := strings.TrimSpace(req.PaymentRef); ref != "" {
		paymentRef = &ref
		// Idempotency: a replayed payment reference returns the booking it
		// already created, but only to the guest who created it. Another
		// account presenting the same reference falls through to creation,
		// where the unique payment_ref column rejects the insert.
		if existing, err := h.Bookings.GetByPaymentRef(ctx, ref); err == nil && sameGuestReplay(existing, guestID) {
			return c.JSON(http.StatusOK, toBookingView(existing))
		}
	}

	l, err := h.Listings.GetActive(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if l.HostID == guestID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cannot book your own listing"})
	}
	if req.Guests > l.MaxGuests {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest count exceeds listing capacity"})
	}

	// A verified payment reference means the paid path already collected the
	// money; those bookings start CONFIRMED. Bank-transfer style requests
	// start PENDING and wait for host acceptance.
	status := model.BookingPending
	if paymentRef != nil {
		status = model.BookingConfirmed
	}

	quote := pricing.Compute(l.NightlyPrice, checkIn, checkOut, l.Deposit)
	b := model.Booking{
		ReferenceCode:   newReferenceCode(),
		ListingID:       l.ID,
		ListingTitle:    l.Title,
		ListingLocation: l.Location,
		GuestID:         guestID,
		HostID:          l.HostID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		TotalPrice:      quote.Total,
		PlatformFee:     quote.PlatformFee,
		HostPayout:      quote.HostPayout,
		Deposit:         quote.Deposit,
		Status:          status,
		PaymentRef:      paymentRef,
	}

	if paymentRef != nil {
		err = h.Bookings.CreateViaProcedure(ctx, &b)
		if errors.Is(err, repository.ErrProcedureMissing) {
			err = h.createGuarded(c, &b)
		}
	} else {
		err = h.createGuarded(c, &b)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDatesUnavailable) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "these dates are no longer available"})
		}
		if errors.Is(err, repository.ErrPaymentRefTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payment reference already used"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	_ = service.PublishEvent(ctx, queue.DomainEvent{
		Kind:          queue.EventBookingCreated,
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		ListingID:     b.ListingID,
		ListingTitle:  b.ListingTitle,
		GuestID:       b.GuestID,
		HostID:        b.HostID,
		Amount:        b.TotalPrice,
		Status:        b.Status,
		CheckIn:       b.CheckIn.Format(model.DateLayout),
		CheckOut:      b.CheckOut.Format(model.DateLayout),
	})
	return c.JSON(http.StatusCreated, toBookingView(b))
}

// createGuarded is the fallback write path: lock the listing row, re-check
// the calendar under that lock and insert, all in one transaction.
func (h *GuestHandler) createGuarded(c echo.Context, b *model.Booking) error {
	ctx := c.Request().Context()
	tx, err := h.Listings.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := h.Listings.GetActiveTx(ctx, tx, b.ListingID); err != nil {
		return err
	}
	conflict, err := h.Bookings.HasConflictTx(ctx, tx, b.ListingID, b.CheckIn, b.CheckOut, 0)
	if err != nil {
		return err
	}
	if conflict {
		return repository.ErrDatesUnavailable
	}
	if err := h.Bookings.CreateTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Cancel handles POST /v1/bookings/:id/cancel. Guests may cancel their own
// PENDING or CONFIRMED bookings before check-in. The transition is a
// compare-and-set so a concurrent host action cannot be overwritten.
func (h *GuestHandler) Cancel(c echo.Context) error {
	guestID, err := getUserID(c)
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
	if b.GuestID != guestID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	now := time.Now().UTC()
	if model.EffectiveStatus(b.Status, b.CheckOut, now) == model.BookingCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stay already completed"})
	}
	if !model.DayOf(now).Before(b.CheckIn) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stay already started"})
	}
	if err := h.Bookings.UpdateStatus(ctx, b.ID, b.Status, model.BookingCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking state changed, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
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

// ListMine handles GET /v1/my-bookings.
func (h *GuestHandler) ListMine(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByGuest(c.Request().Context(), guestID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toBookingViews(items)})
}

// Get handles GET /v1/bookings/:id. Only the booking's guest or host may
// read it.
func (h *GuestHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.GuestID != userID && b.HostID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toBookingView(b)})
}

// sameGuestReplay reports whether a booking found by payment reference may
// be returned to the requesting guest as an idempotent replay. A reference
// never resolves to another account's booking.
func sameGuestReplay(b model.Booking, guestID uint64) bool {
	return b.GuestID == guestID
}

// newReferenceCode produces the short uppercase code shown to guests and
// hosts, e.g. "HB-3F1A9C2D".
func newReferenceCode() string {
	return "HB-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
