package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/repository"
	"github.com/iliyamo/homestay-booking/internal/storage"
)

// HostListingHandler covers a host's management of their own listings.
type HostListingHandler struct {
	Listings *repository.ListingRepo
	Store    *storage.ObjectStore // nil disables image upload
}

func NewHostListingHandler(l *repository.ListingRepo, st *storage.ObjectStore) *HostListingHandler {
	if l == nil {
		panic("nil repository passed to NewHostListingHandler")
	}
	return &HostListingHandler{Listings: l, Store: st}
}

type listingReq struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Location     string   `json:"location" validate:"required"`
	NightlyPrice int64    `json:"nightly_price" validate:"required,min=1"`
	MaxGuests    int      `json:"max_guests" validate:"required,min=1"`
	Deposit      int64    `json:"deposit" validate:"min=0"`
	Amenities    []string `json:"amenities"`
	HouseRules   []string `json:"house_rules"`
	Images       []string `json:"images"`
	VideoURL     *string  `json:"video_url"`
}

// Create handles POST /v1/host/listings.
func (h *HostListingHandler) Create(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	l := model.Listing{
		HostID:       hostID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Location:     strings.TrimSpace(req.Location),
		NightlyPrice: req.NightlyPrice,
		MaxGuests:    req.MaxGuests,
		Deposit:      req.Deposit,
		Amenities:    req.Amenities,
		HouseRules:   req.HouseRules,
		Images:       req.Images,
		VideoURL:     req.VideoURL,
		Status:       model.ListingActive,
	}
	if err := h.Listings.Create(c.Request().Context(), &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": l})
}

// Update handles PUT /v1/host/listings/:id. Only the owning host may edit;
// the repository enforces ownership and reports ErrForbidden otherwise.
func (h *HostListingHandler) Update(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	l := model.Listing{
		ID:           listingID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Location:     strings.TrimSpace(req.Location),
		NightlyPrice: req.NightlyPrice,
		MaxGuests:    req.MaxGuests,
		Deposit:      req.Deposit,
		Amenities:    req.Amenities,
		HouseRules:   req.HouseRules,
		Images:       req.Images,
		VideoURL:     req.VideoURL,
	}
	err = h.Listings.Update(c.Request().Context(), hostID, &l)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update listing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": l})
}

// Delete handles DELETE /v1/host/listings/:id. Listings are soft-deleted;
// existing bookings keep their denormalized title and location.
func (h *HostListingHandler) Delete(c echo.Context) error {
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
	if err := h.Listings.SoftDelete(ctx, listingID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete listing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/host/listings.
func (h *HostListingHandler) ListMine(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Listings.ListByHost(c.Request().Context(), hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load listings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UploadImage handles POST /v1/host/listings/:id/images. It stores the
// image in the public bucket, appends the URL to the listing's image list
// and returns the updated listing.
func (h *HostListingHandler) UploadImage(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "object storage not configured"})
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
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read upload"})
	}
	defer src.Close()

	url, err := h.Store.UploadPublic(ctx, "listings", fh.Filename, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	l.Images = append(l.Images, url)
	if err := h.Listings.Update(ctx, hostID, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update listing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": l})
}
