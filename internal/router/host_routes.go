package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/handler"
	"github.com/iliyamo/homestay-booking/internal/middleware"
	"github.com/iliyamo/homestay-booking/internal/model"
)

// RegisterHost registers host-scoped endpoints under /v1/host.  All routes
// require a valid JWT and the HOST role.  Hosts manage their listings,
// decide on pending booking requests and withdraw settled earnings.
func RegisterHost(e *echo.Echo, l *handler.HostListingHandler, b *handler.HostBookingHandler, p *handler.HostPayoutHandler, jwtSecret string) {
	g := e.Group(
		"/v1/host",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleHost),
	)

	g.POST("/listings", l.Create)
	g.GET("/listings", l.ListMine)
	g.PUT("/listings/:id", l.Update)
	g.DELETE("/listings/:id", l.Delete)
	g.POST("/listings/:id/images", l.UploadImage)
	g.GET("/listings/:id/bookings", b.ListForListing)

	g.GET("/bookings", b.ListMine)
	g.POST("/bookings/:id/accept", b.Accept)
	g.POST("/bookings/:id/reject", b.Reject)

	g.GET("/balance", p.Balance)
	g.POST("/payout-methods", p.CreateMethod)
	g.GET("/payout-methods", p.ListMethods)
	g.DELETE("/payout-methods/:id", p.DeleteMethod)
	g.POST("/payouts", p.CreateRequest)
	g.GET("/payouts", p.ListRequests)
}
