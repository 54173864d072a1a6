package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: listing search,
// listing detail and the blocked-dates calendar used by booking widgets.
// These routes sit behind the response cache middleware, so handlers here
// must stay read-only.
type PublicHandler struct {
	Listings *repository.ListingRepo
	Bookings *repository.BookingRepo
	Reviews  *repository.ReviewRepo
}

func NewPublicHandler(l *repository.ListingRepo, b *repository.BookingRepo, rv *repository.ReviewRepo) *PublicHandler {
	if l == nil || b == nil || rv == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Listings: l, Bookings: b, Reviews: rv}
}

// Search handles GET /v1/listings. Supported query parameters: location,
// min_price, max_price, guests, limit, offset. Only ACTIVE listings are
// returned.
func (h *PublicHandler) Search(c echo.Context) error {
	f := repository.ListingFilter{
		Location: strings.TrimSpace(c.QueryParam("location")),
	}
	f.MinPrice, _ = strconv.ParseInt(c.QueryParam("min_price"), 10, 64)
	f.MaxPrice, _ = strconv.ParseInt(c.QueryParam("max_price"), 10, 64)
	f.MinGuests, _ = strconv.Atoi(c.QueryParam("guests"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	f.Offset, _ = strconv.Atoi(c.QueryParam("offset"))
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	items, err := h.Listings.Search(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/listings/:id: the listing plus its review summary.
func (h *PublicHandler) Get(c echo.Context) error {
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx := c.Request().Context()
	l, err := h.Listings.GetActive(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	avg, count, err := h.Reviews.AverageRating(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"item":         l,
		"rating":       avg,
		"review_count": count,
	})
}

// BlockedDates handles GET /v1/listings/:id/blocked-dates. It returns the
// half-open date ranges of PENDING and CONFIRMED bookings so clients can
// grey out unavailable days; checkout days themselves stay selectable for
// same-day turnover.
func (h *PublicHandler) BlockedDates(c echo.Context) error {
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Listings.GetActive(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	ranges, err := h.Bookings.BlockedDates(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load calendar"})
	}
	return c.JSON(http.StatusOK, echo.Map{"blocked": ranges})
}

// ListingReviews handles GET /v1/listings/:id/reviews.
func (h *PublicHandler) ListingReviews(c echo.Context) error {
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	items, err := h.Reviews.ListByListing(c.Request().Context(), listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reviews"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
