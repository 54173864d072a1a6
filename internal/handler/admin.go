package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/queue"
	"github.com/iliyamo/homestay-booking/internal/repository"
	"github.com/iliyamo/homestay-booking/internal/service"
	"github.com/iliyamo/homestay-booking/internal/storage"
)

// AdminHandler covers the administrative surface: processing payout
// requests, reviewing identity verifications, cancelling bookings on a
// party's behalf, managing listings and the platform stats view.
type AdminHandler struct {
	DB            *sql.DB
	Payouts       *repository.PayoutRepo
	Verifications *repository.VerificationRepo
	Users         *repository.UserRepo
	Listings      *repository.ListingRepo
	Bookings      *repository.BookingRepo
	Store         *storage.ObjectStore // nil disables document links
}

func NewAdminHandler(db *sql.DB, p *repository.PayoutRepo, v *repository.VerificationRepo, u *repository.UserRepo, l *repository.ListingRepo, b *repository.BookingRepo, st *storage.ObjectStore) *AdminHandler {
	if db == nil || p == nil || v == nil || u == nil || l == nil || b == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{DB: db, Payouts: p, Verifications: v, Users: u, Listings: l, Bookings: b, Store: st}
}

// ListPayouts handles GET /v1/admin/payouts?status=PENDING.
func (h *AdminHandler) ListPayouts(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.PayoutPending
	}
	items, err := h.Payouts.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payout requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ProcessPayout handles POST /v1/admin/payouts/:id. The body carries the
// target status, PAID or REJECTED. Only PENDING requests can be processed;
// a concurrent decision loses the compare-and-set and gets 409.
func (h *AdminHandler) ProcessPayout(c echo.Context) error {
	payoutID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payout id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	to := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.CanTransitionPayout(model.PayoutPending, to) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PAID or REJECTED"})
	}
	ctx := c.Request().Context()
	p, err := h.Payouts.GetByID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payout request not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Payouts.UpdateStatus(ctx, payoutID, to); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "payout request already processed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "process payout failed"})
	}
	_ = service.PublishEvent(ctx, queue.DomainEvent{
		Kind:     queue.EventPayoutProcessed,
		PayoutID: p.ID,
		UserID:   p.HostID,
		Amount:   p.Amount,
		Status:   to,
	})
	p.Status = to
	return c.JSON(http.StatusOK, echo.Map{"item": p})
}

// CancelBooking handles POST /v1/admin/bookings/:id/cancel. Support staff
// cancel on behalf of either party, for example while resolving a dispute.
// PENDING and CONFIRMED bookings can be cancelled until the stay completes;
// completed stays are immutable.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
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
	if b.Status == model.BookingCancelled {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
	}
	if model.EffectiveStatus(b.Status, b.CheckOut, time.Now().UTC()) == model.BookingCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stay already completed"})
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

// ListVerifications handles GET /v1/admin/verifications, pending first.
func (h *AdminHandler) ListVerifications(c echo.Context) error {
	items, err := h.Verifications.ListPending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load verifications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// VerificationDocument handles GET /v1/admin/verifications/:id/document.
// It returns a short-lived presigned URL for the submitted document; the
// private bucket is never exposed directly.
func (h *AdminHandler) VerificationDocument(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "object storage not configured"})
	}
	verID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid verification id"})
	}
	ctx := c.Request().Context()
	v, err := h.Verifications.GetByID(ctx, verID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "verification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	url, err := h.Store.PresignIdentityDocument(ctx, v.DocumentKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "presign failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url, "expires_in_seconds": int(storage.PresignTTL.Seconds())})
}

// ReviewVerification handles POST /v1/admin/verifications/:id. Approval
// also flips the user's verified flag.
func (h *AdminHandler) ReviewVerification(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	verID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid verification id"})
	}
	var req struct {
		Status string  `json:"status"`
		Note   *string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != model.VerificationApproved && status != model.VerificationRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be APPROVED or REJECTED"})
	}
	ctx := c.Request().Context()
	v, err := h.Verifications.GetByID(ctx, verID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "verification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Verifications.Review(ctx, verID, adminID, status, req.Note); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "verification already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "review failed"})
	}
	if status == model.VerificationApproved {
		if err := h.Users.SetVerified(ctx, v.UserID, true); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
		}
	}
	_ = service.PublishEvent(ctx, queue.DomainEvent{
		Kind:   queue.EventVerificationReviewed,
		UserID: v.UserID,
		Status: status,
	})
	return c.JSON(http.StatusOK, echo.Map{"id": verID, "status": status})
}

// ListListings handles GET /v1/admin/listings. Unlike public search this
// includes deleted listings.
func (h *AdminHandler) ListListings(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	items, err := h.Listings.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load listings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteListing handles DELETE /v1/admin/listings/:id. Admins may remove
// any listing; bookings keep their denormalized title and location.
func (h *AdminHandler) DeleteListing(c echo.Context) error {
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Listings.GetByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Listings.SoftDelete(ctx, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete listing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/admin/stats: platform-wide counters plus total
// commission collected across holding and completed bookings.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats := echo.Map{}
	counters := []struct {
		key string
		q   string
	}{
		{"users", `SELECT COUNT(*) FROM users`},
		{"active_listings", `SELECT COUNT(*) FROM listings WHERE status='ACTIVE'`},
		{"bookings", `SELECT COUNT(*) FROM bookings`},
		{"pending_payouts", `SELECT COUNT(*) FROM payout_requests WHERE status='PENDING'`},
		{"pending_verifications", `SELECT COUNT(*) FROM identity_verifications WHERE status='PENDING'`},
	}
	for _, ct := range counters {
		var n int64
		if err := h.DB.QueryRowContext(ctx, ct.q).Scan(&n); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
		}
		stats[ct.key] = n
	}
	var fees int64
	const feeQ = `SELECT COALESCE(SUM(platform_fee),0) FROM bookings
	              WHERE status IN ('CONFIRMED','COMPLETED')`
	if err := h.DB.QueryRowContext(ctx, feeQ).Scan(&fees); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	stats["platform_fees"] = fees
	return c.JSON(http.StatusOK, stats)
}
