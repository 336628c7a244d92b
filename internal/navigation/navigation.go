// Package navigation names the reader's screens and moves a client between
// them.
package navigation

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// Screen identifies a destination in the navigation graph.
type Screen int

const (
	SplashScreen Screen = iota
	LoginScreen
	ReaderHomeScreen
)

func (s Screen) String() string {
	switch s {
	case SplashScreen:
		return "splash"
	case LoginScreen:
		return "login"
	case ReaderHomeScreen:
		return "reader_home"
	default:
		return fmt.Sprintf("Screen(%d)", int(s))
	}
}

// Path returns the route that renders the screen.
func (s Screen) Path() string {
	switch s {
	case LoginScreen:
		return "/auth/login"
	case ReaderHomeScreen:
		return "/home"
	default:
		return "/"
	}
}

// StartDestination picks where the splash screen hands over to.
func StartDestination(signedIn bool) Screen {
	if signedIn {
		return ReaderHomeScreen
	}
	return LoginScreen
}

// Navigator moves the client to another screen.
type Navigator interface {
	NavigateTo(screen Screen) error
}

// EchoNavigator navigates the client of a single echo request. htmx requests
// get an HX-Redirect header, everything else a 303.
type EchoNavigator struct {
	c echo.Context
}

// ForRequest returns a navigator bound to c.
func ForRequest(c echo.Context) *EchoNavigator {
	return &EchoNavigator{c: c}
}

func (n *EchoNavigator) NavigateTo(screen Screen) error {
	if IsHTMX(n.c.Request()) {
		n.c.Response().Header().Set("HX-Redirect", screen.Path())
		return n.c.NoContent(http.StatusOK)
	}
	return n.c.Redirect(http.StatusSeeOther, screen.Path())
}

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Recorder remembers every destination it is asked for. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	screens []Screen
}

func (r *Recorder) NavigateTo(screen Screen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens = append(r.screens, screen)
	return nil
}

// Screens returns the recorded destinations in order.
func (r *Recorder) Screens() []Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Screen(nil), r.screens...)
}
