package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wy414012/proxmox-backup/internal/config"
	"github.com/wy414012/proxmox-backup/internal/handler"
	middie "github.com/wy414012/proxmox-backup/internal/middleware"
	"github.com/wy414012/proxmox-backup/internal/session"
	"github.com/wy414012/proxmox-backup/internal/store"
	"github.com/wy414012/proxmox-backup/templates"
)

// App represents the application
type App struct {
	server   *echo.Echo
	config   *config.Config
	sessions *session.Manager
	store    *store.Store
}

// New creates a new application instance
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig wires an application over an already loaded config.
func NewWithConfig(cfg *config.Config) (*App, error) {
	log.Info().
		Int("port", cfg.Port).
		Str("api_url", cfg.APIURL).
		Str("sqlite_path", cfg.SQLitePath).
		Msg("configuration loaded")

	st, err := store.Open(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening UI-state store: %w", err)
	}

	renderer, err := templates.New()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Server.ReadTimeout = 1 * time.Minute
	e.Server.WriteTimeout = 1 * time.Minute
	e.Server.IdleTimeout = 5 * time.Minute
	e.Server.ReadHeaderTimeout = 30 * time.Second

	app := &App{
		server:   e,
		config:   cfg,
		sessions: session.NewManager(),
		store:    st,
	}

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middie.SecurityHeaders())
	e.Use(middie.ResolveSession(app.sessions))

	registerRoutes(e, app)
	return app, nil
}

// Start starts the application
func (a *App) Start() {
	serverAddr := fmt.Sprintf(":%d", a.config.Port)

	go func() {
		if err := a.server.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server stopped")
		}
	}()

	log.Info().Str("addr", serverAddr).Msg("server started")
}

// Stop releases application resources
func (a *App) Stop() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn().Err(err).Msg("closing UI-state store failed")
		}
	}
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// registerRoutes registers all HTTP routes
func registerRoutes(e *echo.Echo, app *App) {
	h := handler.NewHandler(app.config, app.sessions, app.store)

	e.GET("/", h.HandleRoot)
	e.GET("/login", h.HandleLoginPage)
	e.POST("/login", h.HandleLogin)
	e.POST("/logout", h.HandleLogout)

	e.GET("/datastore/new", h.HandleDatastoreNew, middie.RequireSession())
	e.POST("/datastore/new", h.HandleDatastoreCreate, middie.RequireSession())
	e.GET("/datastore/:name/edit", h.HandleDatastoreEdit, middie.RequireSession())
	e.POST("/datastore/:name", h.HandleDatastoreUpdate, middie.RequireSession())

	e.GET("/state/:key", h.HandleStateGet, middie.RequireSession())
	e.PUT("/state/:key", h.HandleStatePut, middie.RequireSession())
	e.DELETE("/state/:key", h.HandleStateDelete, middie.RequireSession())
}
