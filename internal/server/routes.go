package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/middleware"
)

// RegisterRoutes sets up the routes that belong to no module.
func (s *Server) RegisterRoutes() {
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}

// setupErrorHandling logs unhandled errors with a stack trace before echo
// writes the response. *echo.HTTPError values are expected and not logged.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			logger := slog.Default()
			if c.Request() != nil {
				logger = middleware.FromContext(c.Request().Context())
			}
			logger.Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"stack_trace", string(debug.Stack()),
			)
		} else if he.Internal != nil {
			middleware.FromContext(c.Request().Context()).Warn("Request failed",
				"status", he.Code, "error", he.Internal)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
