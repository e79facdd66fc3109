package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/tourio/travel-reservation-api/internal/config"
	"github.com/tourio/travel-reservation-api/internal/handler"
	"github.com/tourio/travel-reservation-api/internal/middleware"
	"github.com/tourio/travel-reservation-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes and applies the
// per-IP rate limit to the unauthenticated credential endpoints.
// Unauthenticated operations live under /v1/auth, while protected
// endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl config.RateLimitConfig) {
	g := e.Group("/v1/auth")
	g.Use(middleware.RateLimit(rl))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  Guests
// can inspect the tour and destination catalogs before registering.
func RegisterPublic(e *echo.Echo, t *handler.TourHandler, d *handler.DestinationHandler) {
	e.GET("/v1/tours", t.List)
	e.GET("/v1/tours/:id", t.Get)
	e.GET("/v1/destinations", d.List)
	e.GET("/v1/destinations/:id", d.Get)
}

// RegisterAdmin registers catalog management endpoints.  Every route in
// this group requires a valid access token with the ADMIN role.
func RegisterAdmin(e *echo.Echo, t *handler.TourHandler, d *handler.DestinationHandler, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/tours", t.Create)
	g.PUT("/tours/:id", t.Update)
	g.PATCH("/tours/:id/capacity", t.SetCapacity)
	g.POST("/tours/:id/cancel", t.Cancel)
	g.DELETE("/tours/:id", t.Delete)

	g.POST("/destinations", d.Create)
	g.PUT("/destinations/:id", d.Update)
	g.DELETE("/destinations/:id", d.Delete)

	g.POST("/reservations/:id/confirm", r.Confirm)
	g.PATCH("/reservations/:id/payment-status", r.UpdatePayment)
	g.GET("/tours/:id/reservations/count", r.CountConfirmed)
	g.GET("/reports/revenue", r.TotalRevenue)
}

// RegisterReservations registers the reservation lifecycle endpoints.
// Both roles may call them; handlers enforce that customers only touch
// their own bookings.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin, model.RoleCustomer))

	g.POST("", r.Create)
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
	g.POST("/:id/cancel", r.Cancel)
}
