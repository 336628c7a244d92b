package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/navigation"
	"github.com/nfrund/bookreader/internal/view"
	"github.com/nfrund/bookreader/web/src/templates/layouts"
	"github.com/nfrund/bookreader/web/src/templates/pages"
)

// SplashHandler shows the start screen and routes onwards.
type SplashHandler struct {
	authenticator domain.Authenticator
	delay         time.Duration
}

// NewSplashHandler creates a SplashHandler that waits delay before routing.
func NewSplashHandler(authenticator domain.Authenticator, delay time.Duration) *SplashHandler {
	return &SplashHandler{authenticator: authenticator, delay: delay}
}

// SplashGet renders the splash screen (GET /).
func (h *SplashHandler) SplashGet(c echo.Context) error {
	page := layouts.Base("", view.GetFlashData(c), view.AdaptGomponentToTempl(pages.Splash(h.delay)))
	return c.Render(http.StatusOK, "", page)
}

// SplashNext sends the client home when it holds a valid session and to the
// login screen otherwise (GET /splash/next).
func (h *SplashHandler) SplashNext(c echo.Context) error {
	signedIn := false
	if token, ok := middleware.AuthToken(c); ok {
		user, err := h.authenticator.Authenticate(c.Request().Context(), token)
		switch {
		case err != nil:
			middleware.FromContext(c.Request().Context()).Debug("Stored session is no longer valid", "error", err)
			middleware.ClearAuthCookie(c)
		case user != nil:
			signedIn = true
		}
	}
	return navigation.ForRequest(c).NavigateTo(navigation.StartDestination(signedIn))
}
