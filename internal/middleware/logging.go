package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roamstay/spot-booking/internal/utils"
)

// RequestLogger emits one structured log line per request with the route,
// status, latency and client IP.  Failures bubble up to Echo's error
// handler after logging.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			fields := map[string]any{
				"method":     c.Request().Method,
				"path":       c.Request().URL.Path,
				"status":     c.Response().Status,
				"latency_ms": time.Since(start).Milliseconds(),
				"ip":         c.RealIP(),
			}
			if c.Response().Status >= 500 {
				utils.Error("request failed", fields)
			} else {
				utils.Info("request", fields)
			}
			return nil
		}
	}
}
