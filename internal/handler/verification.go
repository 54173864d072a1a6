package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/repository"
	"github.com/iliyamo/homestay-booking/internal/storage"
)

// VerificationHandler covers a user's identity verification submissions.
// Documents go straight to the private bucket; the database stores only
// the object key.
type VerificationHandler struct {
	Verifications *repository.VerificationRepo
	Store         *storage.ObjectStore // nil disables submission
}

func NewVerificationHandler(v *repository.VerificationRepo, st *storage.ObjectStore) *VerificationHandler {
	if v == nil {
		panic("nil repository passed to NewVerificationHandler")
	}
	return &VerificationHandler{Verifications: v, Store: st}
}

// Submit handles POST /v1/verifications: multipart with a document_type
// field and a document file. At most one PENDING submission per user.
func (h *VerificationHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "object storage not configured"})
	}
	docType := strings.ToUpper(strings.TrimSpace(c.FormValue("document_type")))
	if docType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "document_type required"})
	}
	fh, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "document file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read upload"})
	}
	defer src.Close()

	ctx := c.Request().Context()
	key, err := h.Store.UploadIdentityDocument(ctx, userID, fh.Filename, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	v := model.IdentityVerification{
		UserID:       userID,
		DocumentType: docType,
		DocumentKey:  key,
	}
	if err := h.Verifications.Submit(ctx, &v); err != nil {
		if errors.Is(err, repository.ErrVerificationPending) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already pending review"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": v})
}

// Mine handles GET /v1/verifications/me: the caller's latest submission.
func (h *VerificationHandler) Mine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	v, err := h.Verifications.LatestForUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no submission"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": v})
}
