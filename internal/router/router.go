// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/roamstay/spot-booking/internal/config"
	"github.com/roamstay/spot-booking/internal/handler"
	"github.com/roamstay/spot-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Unauthenticated
// operations live under /v1/auth; protected ones under /v1 behind the JWT
// middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated browse endpoints behind the
// Redis response cache. Guests can inspect listings, spot details and
// reviews without an account.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := e.Group("", middleware.NewRedisCache(cacheCfg, rdb))
	cached.GET("/v1/spots", p.ListSpots)
	cached.GET("/v1/spots/:id", p.SpotDetail)
	cached.GET("/v1/spots/:id/reviews", p.SpotReviews)
}
