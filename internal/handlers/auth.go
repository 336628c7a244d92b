package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/navigation"
	"github.com/nfrund/bookreader/internal/screen"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/nfrund/bookreader/internal/view"
	"github.com/nfrund/bookreader/web/src/templates/layouts"
	"github.com/nfrund/bookreader/web/src/templates/pages"
)

// Messages shown through flashes.
const (
	MsgLoggedOut     = "You have been logged out."
	MsgSignUpPending = "Your account is still being created. Please wait."
	MsgAuthTimedOut  = "The sign-in service did not answer in time. Please try again."
)

// resultGrace is added to the auth timeout when waiting for a completion so
// the controller's own deadline fires first.
const resultGrace = 2 * time.Second

// AuthHandler drives the login screen. All screen state lives on loop.
type AuthHandler struct {
	loop    *uiloop.Loop
	screens *screen.Store
	wait    time.Duration
}

// NewAuthHandler creates a new AuthHandler. authTimeout is the controller's
// timeout for a single identity provider call.
func NewAuthHandler(loop *uiloop.Loop, screens *screen.Store, authTimeout time.Duration) *AuthHandler {
	if authTimeout <= 0 {
		authTimeout = auth.DefaultTimeout
	}
	return &AuthHandler{loop: loop, screens: screens, wait: authTimeout + resultGrace}
}

// openScreen returns the client's screen id and runs fn with its login
// screen on the loop. A screen created by this call is seeded from the state
// saved in the session.
func (h *AuthHandler) openScreen(c echo.Context, fn func(l *screen.Login)) (string, error) {
	id, err := view.ScreenID(c)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, "session unavailable").SetInternal(err)
	}

	var saved screen.State
	hasSaved := view.LoadScreenState(c, &saved) == nil

	err = h.loop.Call(c.Request().Context(), func() {
		l, created := h.screens.Open(id)
		if created && hasSaved {
			l.Load(saved)
		}
		fn(l)
	})
	if err != nil {
		return "", unavailable(err)
	}
	return id, nil
}

func unavailable(err error) error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, "screen state unavailable").SetInternal(err)
}

func (h *AuthHandler) saveState(c echo.Context, state screen.State) {
	if err := view.SaveScreenState(c, state); err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed to save login screen state", "error", err)
	}
}

// LoginGet renders the login screen (GET /auth/login).
func (h *AuthHandler) LoginGet(c echo.Context) error {
	var v pages.LoginView
	if _, err := h.openScreen(c, func(l *screen.Login) { v = pages.NewLoginView(l) }); err != nil {
		return err
	}
	return h.renderLogin(c, http.StatusOK, v)
}

func (h *AuthHandler) renderLogin(c echo.Context, status int, v pages.LoginView) error {
	title := "Login"
	if v.SignUp {
		title = "Create Account"
	}
	page := layouts.Base(title, view.GetFlashData(c), view.AdaptGomponentToTempl(pages.Login(v)))
	return c.Render(status, "", page)
}

// FieldPost applies a focus, blur or edit event to one field and returns its
// message slot plus the refreshed submit button (POST /auth/fields/:name).
func (h *AuthHandler) FieldPost(c echo.Context) error {
	var req FieldEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid field event")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	value := c.FormValue(req.Name)

	var (
		v     pages.LoginView
		state screen.State
	)
	_, err := h.openScreen(c, func(l *screen.Login) {
		f := l.Field(screen.FieldName(req.Name))
		switch req.Event {
		case "focus":
			f.SetFocused(true)
		case "blur":
			f.SetValue(value)
			f.SetFocused(false)
		default:
			f.SetValue(value)
		}
		v = pages.NewLoginView(l)
		state = l.Save()
	})
	if err != nil {
		return err
	}
	h.saveState(c, state)

	fv := v.Email
	if req.Name == string(screen.FieldPassword) {
		fv = v.Password
	}
	return c.Render(http.StatusOK, "", pages.FieldUpdate(fv, v))
}

// ToggleModePost switches between login and sign-up (POST /auth/mode).
func (h *AuthHandler) ToggleModePost(c echo.Context) error {
	var (
		v     pages.LoginView
		state screen.State
	)
	_, err := h.openScreen(c, func(l *screen.Login) {
		l.ToggleMode()
		v = pages.NewLoginView(l)
		state = l.Save()
	})
	if err != nil {
		return err
	}
	h.saveState(c, state)

	if navigation.IsHTMX(c.Request()) {
		return c.Render(http.StatusOK, "", pages.LoginPanel(v))
	}
	return navigation.ForRequest(c).NavigateTo(navigation.LoginScreen)
}

// LoginPost submits the login form (POST /auth/login). It waits for the
// identity provider and then navigates home on success or back to the login
// screen with the rejection reason.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login form")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	results := make(chan auth.Outcome, 1)
	done := auth.Completion{
		OnSuccess: func(s auth.Session) {
			results <- auth.Outcome{Status: auth.Success, Session: s}
		},
		OnFailure: func(o auth.Outcome) { results <- o },
	}

	var (
		submitted auth.Outcome
		busy      bool
		v         pages.LoginView
		state     screen.State
	)
	id, err := h.openScreen(c, func(l *screen.Login) {
		if req.Mode != "" {
			if mode, err := auth.ParseMode(req.Mode); err == nil {
				l.Mode = mode
			}
		}
		l.ApplyForm(req.Email, req.Password)
		submitted = l.Submit(ctx, done)
		busy = l.Busy()
		v = pages.NewLoginView(l)
		state = l.Save()
	})
	if err != nil {
		return err
	}
	h.saveState(c, state)

	if submitted.Status == auth.Idle {
		if busy {
			view.SetFlashError(c, MsgSignUpPending)
			return navigation.ForRequest(c).NavigateTo(navigation.LoginScreen)
		}
		logger.Debug("Login form submitted with invalid fields")
		return h.renderLogin(c, http.StatusUnprocessableEntity, v)
	}

	select {
	case outcome := <-results:
		return h.finishLogin(c, id, outcome)
	case <-time.After(h.wait):
		logger.Warn("Timed out waiting for auth completion", "mode", submitted.Mode.String())
		view.SetFlashError(c, MsgAuthTimedOut)
		return navigation.ForRequest(c).NavigateTo(navigation.LoginScreen)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *AuthHandler) finishLogin(c echo.Context, screenID string, outcome auth.Outcome) error {
	nav := navigation.ForRequest(c)
	if outcome.Status != auth.Success {
		view.SetFlashError(c, outcome.Reason)
		return nav.NavigateTo(navigation.LoginScreen)
	}

	middleware.SetAuthCookie(c, outcome.Session.Token)
	if !h.loop.Post(func() { h.screens.Close(screenID) }) {
		middleware.FromContext(c.Request().Context()).Debug("Loop stopped before login screen was closed")
	}
	if err := view.SaveScreenState(c, screen.State{}); err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed to reset login screen state", "error", err)
	}
	return nav.NavigateTo(navigation.ReaderHomeScreen)
}

// LogoutPost expires the session cookie (POST /auth/logout).
func (h *AuthHandler) LogoutPost(c echo.Context) error {
	middleware.ClearAuthCookie(c)
	view.SetFlashSuccess(c, MsgLoggedOut)
	return navigation.ForRequest(c).NavigateTo(navigation.LoginScreen)
}
