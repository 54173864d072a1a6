package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/homestay-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/homestay-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/homestay-booking/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication and profile routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: exchanges the refresh token for a new pair.
	g.POST("/refresh", a.Refresh)
	// Non-rotating refresh: a new access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh_token body or a bearer token; it does
	// not require the JWT middleware.
	g.POST("/logout", a.Logout)

	// Profile endpoints require a valid access token of any role.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleGuest, model.RoleHost, model.RoleAdmin))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
	auth.POST("/me/avatar", a.UploadAvatar)

	// Alias kept for clients that call logout at the top level.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  browseCache,
// when non-nil, is the Redis response cache applied to the read-heavy
// search and detail routes.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, browseCache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if browseCache != nil {
		mws = append(mws, browseCache)
	}
	e.GET("/v1/listings", p.Search, mws...)
	e.GET("/v1/listings/:id", p.Get, mws...)
	e.GET("/v1/listings/:id/reviews", p.ListingReviews, mws...)
	// The calendar is what booking widgets poll; it stays uncached so a
	// just-created booking blocks its dates immediately.
	e.GET("/v1/listings/:id/blocked-dates", p.BlockedDates)
}
