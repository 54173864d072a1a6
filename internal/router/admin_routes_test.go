package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/homestay-booking/internal/handler"
	"github.com/iliyamo/homestay-booking/internal/model"
	"github.com/iliyamo/homestay-booking/internal/repository"
	"github.com/iliyamo/homestay-booking/internal/utils"
)

const testSecret = "router-test-secret"

// buildAdminApp registers the admin routes over a lazily-opened database
// handle; sql.Open does not dial, so authentication and parameter checks
// that run before any query can be exercised without a live MySQL.
func buildAdminApp(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := sql.Open("mysql", "test:test@tcp(127.0.0.1:1)/test?parseTime=true")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	bookings := repository.NewBookingRepo(db)
	a := handler.NewAdminHandler(db,
		repository.NewPayoutRepo(db, bookings),
		repository.NewVerificationRepo(db),
		repository.NewUserRepo(db),
		repository.NewListingRepo(db),
		bookings,
		nil)
	e := echo.New()
	RegisterAdmin(e, a, testSecret)
	return e
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 1, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func TestAdminCancelBookingRequiresToken(t *testing.T) {
	e := buildAdminApp(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/bookings/1/cancel", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCancelBookingRejectsHostRole(t *testing.T) {
	e := buildAdminApp(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/bookings/1/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleHost))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCancelBookingRejectsBadID(t *testing.T) {
	e := buildAdminApp(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/bookings/abc/cancel", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleAdmin))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminListingsRejectsGuestRole(t *testing.T) {
	e := buildAdminApp(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/listings", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, model.RoleGuest))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
