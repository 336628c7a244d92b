package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/handlers"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/rendering"
	"github.com/nfrund/bookreader/internal/screen"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// fakeIdentity records calls and answers with a fixed session or error.
type fakeIdentity struct {
	mu      sync.Mutex
	calls   []string
	err     error
	profile []map[string]any
}

func (f *fakeIdentity) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeIdentity) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeIdentity) SignIn(_ context.Context, email, _ string) (auth.Session, error) {
	f.record("signin:" + email)
	if f.err != nil {
		return auth.Session{}, f.err
	}
	return auth.Session{UserID: "user:1", Email: email, Token: "signin-token"}, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string) (auth.Session, error) {
	f.record("signup:" + email)
	if f.err != nil {
		return auth.Session{}, f.err
	}
	return auth.Session{UserID: "user:2", Email: email, Token: "signup-token"}, nil
}

func (f *fakeIdentity) AddRecord(_ context.Context, collection string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = append(f.profile, fields)
	f.calls = append(f.calls, "profile:"+collection)
	return nil
}

// Authenticate accepts the tokens handed out above.
func (f *fakeIdentity) Authenticate(_ context.Context, token string) (*domain.User, error) {
	switch token {
	case "signin-token", "signup-token":
		return &domain.User{Email: "jane@example.com"}, nil
	default:
		return nil, domain.ErrInvalidCredentials
	}
}

type testApp struct {
	e        *echo.Echo
	identity *fakeIdentity
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWith(t, &fakeIdentity{})
}

// newTestAppWith builds a fresh server around identity. Two apps built with
// the same identity behave like one server before and after a restart.
func newTestAppWith(t *testing.T, identity *fakeIdentity) *testApp {
	t.Helper()

	loop := uiloop.New(16)
	ctx, cancel := context.WithCancel(context.Background())
	loop.Start(ctx)

	var (
		mu          sync.Mutex
		controllers []*auth.Controller
	)
	store := screen.NewStore(func() *auth.Controller {
		c := auth.NewController(identity, loop,
			auth.WithDocumentStore(identity),
			auth.WithTimeout(time.Second))
		mu.Lock()
		controllers = append(controllers, c)
		mu.Unlock()
		return c
	}, time.Minute)

	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range controllers {
			c.Wait()
		}
		loop.Stop()
		cancel()
	})

	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))

	authHandler := handlers.NewAuthHandler(loop, store, time.Second)
	e.GET("/auth/login", authHandler.LoginGet)
	e.POST("/auth/login", authHandler.LoginPost)
	e.POST("/auth/fields/:name", authHandler.FieldPost)
	e.POST("/auth/mode", authHandler.ToggleModePost)
	e.POST("/auth/logout", authHandler.LogoutPost)

	splash := handlers.NewSplashHandler(identity, 2*time.Second)
	e.GET("/", splash.SplashGet)
	e.GET("/splash/next", splash.SplashNext)
	e.GET("/home", handlers.NewHomeHandler().HomeGet, middleware.Auth(identity))

	return &testApp{e: e, identity: identity}
}

// client carries cookies between requests like a browser would.
type client struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, app: a, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.app.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

func (c *client) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

// flashes decodes the flash session the client currently holds.
func (c *client) flashes(key string) []interface{} {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	sess, err := sessions.NewCookieStore([]byte(testSessionSecret)).Get(req, "flash-session")
	require.NoError(c.t, err)
	return sess.Flashes(key)
}
