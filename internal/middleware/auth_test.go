package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func TestAuthMiddleware(t *testing.T) {
	authenticator := new(mockAuthenticator)
	authenticator.On("Authenticate", mock.Anything, "good-token").
		Return(&domain.User{Email: "reader@example.com"}, nil)
	authenticator.On("Authenticate", mock.Anything, "bad-token").
		Return(nil, domain.ErrInvalidCredentials)

	e := echo.New()
	e.GET("/home", func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok {
			return c.String(http.StatusInternalServerError, "no user")
		}
		return c.String(http.StatusOK, "Welcome "+user.Email)
	}, Auth(authenticator))

	t.Run("unauthenticated user is redirected to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	})

	t.Run("authenticated user can access protected route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good-token"})
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Welcome reader@example.com")
	})

	t.Run("user with invalid token is redirected and cookie cleared", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "bad-token"})
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), AuthCookieName+"=;")
	})

	t.Run("htmx request is redirected with HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/auth/login", rec.Header().Get("HX-Redirect"))
	})

	authenticator.AssertExpectations(t)
}
