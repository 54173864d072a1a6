package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/repository"
)

// ReviewHandler lets guests rate listings after a completed stay.
type ReviewHandler struct {
	Reviews  *repository.ReviewRepo
	Bookings *repository.BookingRepo
}

func NewReviewHandler(rv *repository.ReviewRepo, b *repository.BookingRepo) *ReviewHandler {
	if rv == nil || b == nil {
		panic("nil repository passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: rv, Bookings: b}
}

// Create handles POST /v1/reviews: {booking_id, rating, comment}. The
// booking must belong to the caller and its effective status must be
// COMPLETED; one review per booking.
func (h *ReviewHandler) Create(c echo.Context) error {
	guestID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		BookingID uint64 `json:"booking_id" validate:"required"`
		Rating    int    `json:"rating" validate:"required,min=1,max=5"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	b, err := h.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.GuestID != guestID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if model.EffectiveStatus(b.Status, b.CheckOut, time.Now().UTC()) != model.BookingCompleted {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stay not completed yet"})
	}
	rv := model.Review{
		ListingID: b.ListingID,
		BookingID: b.ID,
		GuestID:   guestID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		if errors.Is(err, repository.ErrAlreadyReviewed) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already reviewed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rv})
}
