// Package reader serves the signed-in reader's screens.
package reader

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/diagnostics"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/handlers"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/module"
	"github.com/samber/do/v2"
)

// Module wires the home screen and the diagnostics endpoint.
type Module struct {
	module.BaseModule
}

// New creates the reader module.
func New() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "reader" }

func (m *Module) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (*handlers.HomeHandler, error) {
		return handlers.NewHomeHandler(), nil
	})
	do.Provide(i, func(i do.Injector) (*handlers.DiagnosticsHandler, error) {
		return handlers.NewDiagnosticsHandler(do.MustInvoke[*diagnostics.Recorder](i)), nil
	})
	return nil
}

func (m *Module) Boot(ctx context.Context, router *echo.Group, i do.Injector) error {
	home, err := do.Invoke[*handlers.HomeHandler](i)
	if err != nil {
		return err
	}
	diag, err := do.Invoke[*handlers.DiagnosticsHandler](i)
	if err != nil {
		return err
	}
	requireUser := middleware.Auth(do.MustInvoke[domain.Authenticator](i))

	router.GET("/home", home.HomeGet, requireUser)
	router.GET("/diagnostics/auth", diag.AuthGet, requireUser)
	return nil
}
