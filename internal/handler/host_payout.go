package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/pricing"
	"github.com/iliyamo/homestay-booking/internal/repository"
)

// HostPayoutHandler covers the host settlement surface: the balance view,
// saved payout methods and withdrawal requests. All balance arithmetic
// lives in the pricing package; the repository re-runs it under row locks
// when a request is created.
type HostPayoutHandler struct {
	Bookings *repository.BookingRepo
	Payouts  *repository.PayoutRepo
}

func NewHostPayoutHandler(b *repository.BookingRepo, p *repository.PayoutRepo) *HostPayoutHandler {
	if b == nil || p == nil {
		panic("nil repository passed to NewHostPayoutHandler")
	}
	return &HostPayoutHandler{Bookings: b, Payouts: p}
}

// Balance handles GET /v1/host/balance. total_earned sums host payouts of
// CONFIRMED and COMPLETED bookings; available applies the withdrawable
// percentage and subtracts PENDING and PAID withdrawals.
func (h *HostPayoutHandler) Balance(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	earned, err := h.Bookings.TotalEarned(ctx, hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load earnings"})
	}
	withdrawn, err := h.Payouts.TotalWithdrawn(ctx, hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load withdrawals"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_earned":    earned,
		"total_withdrawn": withdrawn,
		"available":       pricing.AvailableBalance(earned, withdrawn),
		"min_withdrawal":  pricing.MinWithdrawal,
	})
}

type payoutMethodReq struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	IsDefault     bool   `json:"is_default"`
}

// CreateMethod handles POST /v1/host/payout-methods.
func (h *HostPayoutHandler) CreateMethod(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req payoutMethodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	m := model.PayoutMethod{
		HostID:        hostID,
		BankName:      strings.TrimSpace(req.BankName),
		AccountName:   strings.TrimSpace(req.AccountName),
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		IsDefault:     req.IsDefault,
	}
	if err := h.Payouts.CreateMethod(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payout method failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": m})
}

// ListMethods handles GET /v1/host/payout-methods.
func (h *HostPayoutHandler) ListMethods(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Payouts.ListMethods(c.Request().Context(), hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payout methods"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteMethod handles DELETE /v1/host/payout-methods/:id.
func (h *HostPayoutHandler) DeleteMethod(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	methodID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid method id"})
	}
	if err := h.Payouts.DeleteMethod(c.Request().Context(), methodID, hostID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payout method not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete payout method failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type payoutRequestReq struct {
	Amount   uint64 `json:"amount" validate:"required,min=1"`
	MethodID uint64 `json:"method_id" validate:"required"`
}

// CreateRequest handles POST /v1/host/payouts. The bank details of the
// chosen method are snapshotted onto the request; the repository validates
// the amount against the locked balance inside its transaction.
func (h *HostPayoutHandler) CreateRequest(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req payoutRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	method, err := h.Payouts.GetMethodForHost(ctx, req.MethodID, hostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payout method not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	p := model.PayoutRequest{
		HostID:        hostID,
		Amount:        int64(req.Amount),
		BankName:      method.BankName,
		AccountName:   method.AccountName,
		AccountNumber: method.AccountNumber,
	}
	if err := h.Payouts.CreateRequest(ctx, &p); err != nil {
		if errors.Is(err, pricing.ErrBelowMinimum) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount below minimum withdrawal"})
		}
		if errors.Is(err, pricing.ErrInsufficientBalance) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient available balance"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payout request failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": p})
}

// ListRequests handles GET /v1/host/payouts.
func (h *HostPayoutHandler) ListRequests(c echo.Context) error {
	hostID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Payouts.ListByHost(c.Request().Context(), hostID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payout requests"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
