package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStore = sessions.NewCookieStore([]byte("bookreader-view-test-secret-32b!"))

// setupTestContext returns a context whose session middleware has already
// run, carrying cookies from any earlier response.
func setupTestContext(cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()

	var c echo.Context
	capture := session.Middleware(testStore)(func(ctx echo.Context) error {
		c = ctx
		return nil
	})
	_ = capture(echo.New().NewContext(req, rec))
	return c, rec
}

func TestFlashData(t *testing.T) {
	tests := []struct {
		name        string
		set         func(echo.Context)
		wantSuccess []string
		wantError   []string
	}{
		{
			name:        "logout notice",
			set:         func(c echo.Context) { view.SetFlashSuccess(c, "You have been logged out.") },
			wantSuccess: []string{"You have been logged out."},
		},
		{
			name:      "rejected sign-in",
			set:       func(c echo.Context) { view.SetFlashError(c, "Invalid email or password.") },
			wantError: []string{"Invalid email or password."},
		},
		{
			name: "both kinds keep their order",
			set: func(c echo.Context) {
				view.SetFlashError(c, "first")
				view.SetFlashSuccess(c, "welcome")
				view.SetFlashError(c, "second")
			},
			wantSuccess: []string{"welcome"},
			wantError:   []string{"first", "second"},
		},
		{
			name: "nothing set",
			set:  func(echo.Context) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setupTestContext()
			tt.set(c)

			got := view.GetFlashData(c)
			assert.ElementsMatch(t, tt.wantSuccess, got.Success)
			assert.Equal(t, len(tt.wantError), len(got.Error))
			for i, msg := range tt.wantError {
				assert.Equal(t, msg, got.Error[i])
			}
			assert.Equal(t, len(tt.wantSuccess)+len(tt.wantError) == 0, got.Empty())

			assert.True(t, view.GetFlashData(c).Empty(), "flashes are consumed by the first read")
		})
	}
}

func TestFlashData_SurvivesRedirect(t *testing.T) {
	c, rec := setupTestContext()
	view.SetFlashError(c, "A user with this email already exists.")

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next, _ := setupTestContext(cookies...)
	got := view.GetFlashData(next)
	assert.Equal(t, []string{"A user with this email already exists."}, got.Error)
}
