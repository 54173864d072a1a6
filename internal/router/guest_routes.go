package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/handler"
	"github.com/iliyamo/homestay-booking/internal/middleware"
	"github.com/iliyamo/homestay-booking/internal/model"
)

// RegisterGuest registers guest-scoped endpoints under /v1.  All routes
// require a valid JWT and the GUEST role.  Guests can quote stays, create
// and cancel bookings, review completed stays and manage favorites.
func RegisterGuest(e *echo.Echo, g *handler.GuestHandler, rv *handler.ReviewHandler, f *handler.FavoriteHandler, jwtSecret string) {
	gr := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleGuest),
	)
	// Quote prices a candidate stay without reserving anything.
	gr.GET("/listings/:id/quote", g.Quote)
	gr.POST("/bookings", g.Create)
	gr.POST("/bookings/:id/cancel", g.Cancel)
	gr.GET("/my-bookings", g.ListMine)

	gr.POST("/reviews", rv.Create)
	gr.POST("/listings/:id/favorite", f.Toggle)
	gr.GET("/my-favorites", f.ListMine)
}

// RegisterBookingDetail registers the shared booking detail route.  Both
// sides of a booking may read it, so the role check admits guests and
// hosts; the handler enforces participation.
func RegisterBookingDetail(e *echo.Echo, g *handler.GuestHandler, jwtSecret string) {
	e.GET("/v1/bookings/:id", g.Get,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleGuest, model.RoleHost),
	)
}
