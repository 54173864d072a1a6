package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/homestay-booking/internal/handler"
	"github.com/iliyamo/homestay-booking/internal/middleware"
	"github.com/iliyamo/homestay-booking/internal/model"
)

// RegisterAdmin registers administrative endpoints under /v1/admin.  All
// routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	g.GET("/payouts", a.ListPayouts)
	g.POST("/payouts/:id", a.ProcessPayout)

	g.GET("/verifications", a.ListVerifications)
	g.GET("/verifications/:id/document", a.VerificationDocument)
	g.POST("/verifications/:id", a.ReviewVerification)

	g.POST("/bookings/:id/cancel", a.CancelBooking)

	g.GET("/listings", a.ListListings)
	g.DELETE("/listings/:id", a.DeleteListing)
	g.GET("/stats", a.Stats)
}

// RegisterShared registers endpoints open to every authenticated role:
// the notification feed, verification submissions and guest/host chat.
func RegisterShared(e *echo.Echo, n *handler.NotificationHandler, v *handler.VerificationHandler, ch *handler.ChatHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleGuest, model.RoleHost, model.RoleAdmin),
	)

	g.GET("/notifications", n.List)
	g.GET("/notifications/unread-count", n.UnreadCount)
	g.POST("/notifications/:id/read", n.MarkRead)
	g.POST("/notifications/read-all", n.MarkAllRead)

	g.POST("/verifications", v.Submit)
	g.GET("/verifications/me", v.Mine)

	g.POST("/conversations", ch.Start)
	g.GET("/conversations", ch.List)
	g.GET("/conversations/:id/messages", ch.Messages)
	g.POST("/conversations/:id/messages", ch.Send)
}
