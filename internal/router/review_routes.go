package router

import (
	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/handler"
	"github.com/roamstay/spot-booking/internal/middleware"
)

// RegisterReviews registers review and review-image routes. Creation hangs
// off the spot; edits and deletes address the review or image directly.
func RegisterReviews(e *echo.Echo, r *handler.ReviewHandler, ri *handler.ReviewImageHandler, jwtSecret string) {
	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	auth.GET("/my-reviews", r.Mine)
	auth.POST("/spots/:id/reviews", r.Create)
	auth.PUT("/reviews/:id", r.Update)
	auth.DELETE("/reviews/:id", r.Delete)

	auth.POST("/reviews/:id/images", ri.Add)
	auth.DELETE("/review-images/:id", ri.Delete)
}
