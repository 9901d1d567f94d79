package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/handler"
	"github.com/roamstay/spot-booking/internal/middleware"
)

// RegisterSpots registers the host-facing spot and image routes. Every
// route requires a valid access token; ownership checks happen in the
// handlers.
func RegisterSpots(e *echo.Echo, s *handler.SpotHandler, si *handler.SpotImageHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	auth.GET("/my-spots", s.Mine)
	auth.POST("/spots", s.Create)
	auth.PUT("/spots/:id", s.Update)
	auth.DELETE("/spots/:id", s.Delete)

	auth.POST("/spots/:id/images", si.Add)
	auth.DELETE("/spot-images/:id", si.Delete)
}
