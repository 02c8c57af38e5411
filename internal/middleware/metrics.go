package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"importexport-hub/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		if err != nil && !c.Response().Committed {
			// The error handler has not written a response yet
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}

		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(status), status, time.Since(start))
		return err
	}
}
