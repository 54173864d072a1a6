package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/repository"
)

// FavoriteHandler lets users save listings for later.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Listings  *repository.ListingRepo
}

func NewFavoriteHandler(f *repository.FavoriteRepo, l *repository.ListingRepo) *FavoriteHandler {
	if f == nil || l == nil {
		panic("nil repository passed to NewFavoriteHandler")
	}
	return &FavoriteHandler{Favorites: f, Listings: l}
}

// Toggle handles POST /v1/listings/:id/favorite. It flips the saved state
// and reports the new one.
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
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
	saved, err := h.Favorites.Toggle(ctx, userID, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listing_id": listingID, "saved": saved})
}

// ListMine handles GET /v1/my-favorites, returning the still-active saved
// listings.
func (h *FavoriteHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	ids, err := h.Favorites.ListingIDs(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load favorites"})
	}
	items := make([]model.Listing, 0, len(ids))
	for _, id := range ids {
		l, err := h.Listings.GetActive(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrListingNotFound) {
				continue // deleted since it was saved
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load favorites"})
		}
		items = append(items, l)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
