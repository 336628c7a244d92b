// Package server assembles the HTTP server: core services, modules, routes
// and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/bookreader/internal/app"
	"github.com/nfrund/bookreader/internal/assets"
	"github.com/nfrund/bookreader/internal/config"
	"github.com/nfrund/bookreader/internal/database"
	"github.com/nfrund/bookreader/internal/diagnostics"
	"github.com/nfrund/bookreader/internal/handlers"
	"github.com/nfrund/bookreader/internal/middleware"
	"github.com/nfrund/bookreader/internal/module"
	"github.com/nfrund/bookreader/internal/pubsub"
	"github.com/nfrund/bookreader/internal/rendering"
	"github.com/nfrund/bookreader/internal/uiloop"
	"github.com/nfrund/bookreader/web"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/surrealdb/surrealdb.go"
)

// loopBuffer is the task queue size of the screen loop.
const loopBuffer = 256

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	DB       *surrealdb.DB
	Cfg      config.Provider
	Loop     *uiloop.Loop
	Bus      *pubsub.WatermillBridge
	Injector do.Injector

	modules []module.Module
	cancel  context.CancelFunc
}

// New connects to the database and builds a server from cfg.
func New(ctx context.Context, cfg config.Provider) (*Server, error) {
	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	identity := database.NewIdentityStore(cfg)
	s, err := Build(ctx, cfg, app.Dependencies{
		Identity:      identity,
		Authenticator: identity,
		Documents:     database.NewDocumentStore(db),
	}, app.NewModules())
	if err != nil {
		db.Close(context.Background())
		return nil, err
	}
	s.DB = db
	return s, nil
}

// Build assembles a server around the given collaborators. Loop, bus,
// recorder and renderer are created here and override anything set in deps.
func Build(ctx context.Context, cfg config.Provider, deps app.Dependencies, modules []module.Module) (*Server, error) {
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	loop := uiloop.New(loopBuffer)
	loop.Start(runCtx)

	bus := pubsub.NewWatermillBridge(pubsub.WithBusLogger(slog.Default().With("component", "bus")))
	recorder := diagnostics.NewRecorder()
	if err := recorder.Subscribe(runCtx, bus); err != nil {
		cancel()
		loop.Stop()
		return nil, err
	}

	deps.Config = cfg
	deps.Publisher = bus
	deps.Subscriber = bus
	deps.Loop = loop
	deps.Recorder = recorder
	deps.Renderer = rendering.NewUniversalRenderer()

	s := &Server{
		E:        echo.New(),
		Cfg:      cfg,
		Loop:     loop,
		Bus:      bus,
		Injector: app.NewInjector(deps),
		modules:  modules,
		cancel:   cancel,
	}

	if err := s.setup(runCtx); err != nil {
		s.Close(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Server) setup(ctx context.Context) error {
	e := s.E
	e.HideBanner = true
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)

	store := sessions.NewCookieStore([]byte(s.Cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	files, err := assets.NewFS(afero.NewOsFs(), s.Cfg.GetStaticDir(), web.FS)
	if err != nil {
		return err
	}
	assets.Register(e, files)

	s.RegisterRoutes()

	for _, m := range s.modules {
		if err := m.Register(s.Injector); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	root := e.Group("")
	for _, m := range s.modules {
		if err := m.Boot(ctx, root, s.Injector); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Debug("Module booted", "module", m.Name())
	}
	return nil
}
