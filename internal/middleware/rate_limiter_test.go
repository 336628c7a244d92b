package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginAttempt(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_LoginBurst(t *testing.T) {
	const burst = 3

	var logs bytes.Buffer
	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := slog.New(slog.NewTextHandler(&logs, nil))
			c.SetRequest(c.Request().WithContext(WithLogger(c.Request().Context(), l)))
			return next(c)
		}
	})
	// Refill slowly enough that the bucket cannot recover during the test.
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusSeeOther)
	}, RateLimiter(0.001, burst))

	for i := 1; i <= burst; i++ {
		rec := loginAttempt(e, "198.51.100.7")
		require.Equal(t, http.StatusSeeOther, rec.Code, "attempt %d is within the burst", i)
	}

	rec := loginAttempt(e, "198.51.100.7")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
	assert.Contains(t, logs.String(), "Rate limit exceeded")
	assert.Contains(t, logs.String(), "client=198.51.100.7")

	t.Run("other clients have their own bucket", func(t *testing.T) {
		assert.Equal(t, http.StatusSeeOther, loginAttempt(e, "198.51.100.8").Code)
	})
}
