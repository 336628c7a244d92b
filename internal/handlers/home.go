package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/navigation"
	"github.com/nfrund/bookreader/internal/view"
	"github.com/nfrund/bookreader/web/src/templates/layouts"
	"github.com/nfrund/bookreader/web/src/templates/pages"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HomeHandler handles requests for the reader's home screen.
type HomeHandler struct {
	lang language.Tag
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{lang: language.English}
}

// HomeGet greets the signed-in reader (GET /home). It must run behind
// middleware.Auth.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return navigation.ForRequest(c).NavigateTo(navigation.LoginScreen)
	}

	name := auth.DisplayName(user.Email)
	if user.Name != nil && *user.Name != "" {
		name = *user.Name
	}

	// Casers are stateful; one per request.
	page := layouts.Base("Home", view.GetFlashData(c),
		view.AdaptGomponentToTempl(pages.Home(cases.Title(h.lang).String(name), user.Email)))
	return c.Render(http.StatusOK, "", page)
}
