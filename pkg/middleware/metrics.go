package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"niuniq/pkg/metrics"
)

// Metrics records request count and latency. The route label is the
// registered path template so ids do not explode cardinality.
func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		metrics.RequestTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
		return err
	}
}
