package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"niuniq/pkg/api"
	apperrors "niuniq/pkg/errors"
)

// RateLimit allows requests per window per client IP. The bucket refills
// continuously and holds a full window's worth of burst.
func RateLimit(requests int, window time.Duration) echo.MiddlewareFunc {
	if requests <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(requests) / window.Seconds()),
		Burst:     requests,
		ExpiresIn: window,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusForbidden, "Unable to identify client", err, nil))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return api.ErrorResponse(c, apperrors.NewHttpError(http.StatusTooManyRequests,
				"Too many requests, please try again later", err, map[string]any{"ip": identifier}))
		},
	})
}
