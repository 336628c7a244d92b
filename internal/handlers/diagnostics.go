package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/diagnostics"
)

// DiagnosticsHandler exposes recent auth activity as JSON.
type DiagnosticsHandler struct {
	recorder *diagnostics.Recorder
}

// NewDiagnosticsHandler creates a DiagnosticsHandler.
func NewDiagnosticsHandler(recorder *diagnostics.Recorder) *DiagnosticsHandler {
	return &DiagnosticsHandler{recorder: recorder}
}

// AuthGet returns the recorder snapshot (GET /diagnostics/auth).
func (h *DiagnosticsHandler) AuthGet(c echo.Context) error {
	return c.JSON(http.StatusOK, h.recorder.Snapshot())
}
