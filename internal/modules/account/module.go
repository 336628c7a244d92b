// Package account serves the splash and login screens.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/bookreader/internal/auth"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/domain"
	"github.com/nfrund/bookreader/internal/handlers"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/module"
	"github.com/nfrund/bookreader/internal/pubsub"
	"github.com/nfrund/bookreader/internal/screen"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/samber/do/v2"
)

// SweepInterval is how often idle login screens are dropped.
const SweepInterval = time.Minute

// Module wires the account screens.
type Module struct {
	module.BaseModule
	stop context.CancelFunc
}

// New creates the account module.
func New() *Module {
	return &Module{}
}

func (m *Module) Name() string { return "account" }

// Register provides the screen store and the account handlers.
func (m *Module) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (*screen.Store, error) {
		cfg := do.MustInvoke[config.Provider](i)
		loop := do.MustInvoke[*uiloop.Loop](i)
		identity := do.MustInvoke[auth.IdentityProvider](i)
		documents := do.MustInvoke[auth.DocumentStore](i)
		events := do.MustInvoke[pubsub.Publisher](i)
		logger := slog.Default().With("module", m.Name())

		newController := func() *auth.Controller {
			return auth.NewController(identity, loop,
				auth.WithDocumentStore(documents),
				auth.WithPublisher(events),
				auth.WithProfileCollection(cfg.GetProfileCollection()),
				auth.WithTimeout(cfg.GetAuthTimeout()),
				auth.WithLogger(logger),
			)
		}
		return screen.NewStore(newController, screen.DefaultTTL), nil
	})

	do.Provide(i, func(i do.Injector) (*handlers.AuthHandler, error) {
		cfg := do.MustInvoke[config.Provider](i)
		return handlers.NewAuthHandler(
			do.MustInvoke[*uiloop.Loop](i),
			do.MustInvoke[*screen.Store](i),
			cfg.GetAuthTimeout(),
		), nil
	})

	do.Provide(i, func(i do.Injector) (*handlers.SplashHandler, error) {
		cfg := do.MustInvoke[config.Provider](i)
		return handlers.NewSplashHandler(do.MustInvoke[domain.Authenticator](i), cfg.GetSplashDelay()), nil
	})
	return nil
}

// Boot mounts the routes and starts the idle screen sweeper.
func (m *Module) Boot(ctx context.Context, router *echo.Group, i do.Injector) error {
	authHandler, err := do.Invoke[*handlers.AuthHandler](i)
	if err != nil {
		return err
	}
	splash, err := do.Invoke[*handlers.SplashHandler](i)
	if err != nil {
		return err
	}

	limiter := middleware.RateLimiter(1, 10)

	router.GET("/", splash.SplashGet)
	router.GET("/splash/next", splash.SplashNext)

	router.GET("/auth/login", authHandler.LoginGet)
	router.POST("/auth/login", authHandler.LoginPost, limiter)
	router.POST("/auth/fields/:name", authHandler.FieldPost)
	router.POST("/auth/mode", authHandler.ToggleModePost)
	router.POST("/auth/logout", authHandler.LogoutPost)

	sweepCtx, stop := context.WithCancel(ctx)
	m.stop = stop
	go sweep(sweepCtx, do.MustInvoke[*uiloop.Loop](i), do.MustInvoke[*screen.Store](i))
	return nil
}

func sweep(ctx context.Context, loop *uiloop.Loop, store *screen.Store) {
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loop.Post(func() {
				if n := store.Sweep(); n > 0 {
					slog.Debug("Dropped idle login screens", "count", n, "open", store.Len())
				}
			})
		}
	}
}

// Shutdown stops the sweeper.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.stop != nil {
		m.stop()
	}
	return nil
}
