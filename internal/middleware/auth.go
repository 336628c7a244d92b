package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/navigation"
)

const (
	// UserContextKey holds the *domain.User of an authenticated request.
	UserContextKey = "user"
	// AuthCookieName is the cookie carrying the identity provider's session token.
	AuthCookieName = "auth_token"
)

// SetAuthCookie stores token as the client's session.
func SetAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:   AuthCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// AuthToken returns the session token sent with the request, if any.
func AuthToken(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(AuthCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserContextKey).(*domain.User)
	return user, ok && user != nil
}

// Auth creates a middleware that protects routes that require authentication.
// Unauthenticated clients are sent to the login screen.
func Auth(authenticator domain.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			toLogin := navigation.ForRequest(c)

			token, ok := AuthToken(c)
			if !ok {
				return toLogin.NavigateTo(navigation.LoginScreen)
			}

			user, err := authenticator.Authenticate(c.Request().Context(), token)
			if err != nil || user == nil {
				if err != nil {
					FromContext(c.Request().Context()).Debug("Rejected session token", "error", err)
				}
				ClearAuthCookie(c)
				return toLogin.NavigateTo(navigation.LoginScreen)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
