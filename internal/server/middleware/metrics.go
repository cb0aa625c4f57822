package middleware

import (
	"strconv"
	"time"

	"github.com/unet360/unet360/backend/internal/metrics"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and latency by route template.
func MetricsMiddleware(reg *metrics.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reg.HTTPRequestsInFlight.Inc()
			defer reg.HTTPRequestsInFlight.Dec()

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			reg.RecordHTTPRequest(c.Request().Method, path, status, time.Since(start))
			return nil
		}
	}
}
