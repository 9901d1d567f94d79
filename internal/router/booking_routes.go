package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/roamstay/spot-booking/internal/config"
	"github.com/roamstay/spot-booking/internal/handler"
	"github.com/roamstay/spot-booking/internal/middleware"
)

// RegisterBookings registers the booking routes. All of them require a
// valid access token and the write paths sit behind the token-bucket rate
// limiter, keyed per user so one aggressive client cannot starve others.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, rlCfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	limited := auth.Group("", middleware.NewTokenBucket(rlCfg, rdb))

	auth.GET("/my-bookings", b.Mine)
	auth.GET("/spots/:id/bookings", b.ListForSpot)

	limited.POST("/spots/:id/bookings", b.Create)
	limited.PUT("/bookings/:id", b.Update)
	limited.DELETE("/bookings/:id", b.Delete)
}
