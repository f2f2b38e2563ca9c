package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/galileomedialab/medialab/internal/crm/auth"
	"github.com/galileomedialab/medialab/internal/crm/data"
	"github.com/galileomedialab/medialab/internal/crm/domain"
	crmhttp "github.com/galileomedialab/medialab/internal/crm/http"
	"github.com/galileomedialab/medialab/internal/crm/session"
	"github.com/galileomedialab/medialab/internal/crm/store"
	"github.com/galileomedialab/medialab/internal/crm/store/drivers/sqlite"
	"github.com/galileomedialab/medialab/pkg/cms"
	"github.com/galileomedialab/medialab/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the gateway with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	client   *cms.Client
	manager  *session.Manager
	facade   *auth.Facade
	registry *data.Registry

	housekeeping *HousekeepingService

	server *http.Server
	router *crmhttp.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "medialab-gateway",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	roles, err := domain.NewRoleMap(
		cfg.RoleAdminID,
		cfg.RoleCollaboratorID,
		cfg.RoleClientID,
		app.logger,
	)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("invalid role configuration: %w", err)
	}

	app.client = cms.NewClient(cfg.CMSBaseURL, cfg.CMSTimeout)
	app.manager = session.NewManager(app.client, app.db, roles, app.logger, cfg.SessionTTL)
	app.registry = data.NewRegistry()
	app.manager.OnLogout = app.registry.Drop
	app.facade = auth.NewFacade(app.manager, app.logger)

	app.housekeeping = NewHousekeepingService(app.db, app.manager, app.logger, cfg.HousekeepingInterval, cfg.SessionIdleTTL)

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("gateway starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gateway...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gateway stopped")
	return nil
}

// initDatabase opens the credential store and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host, app.cfg.AuthTokenKey, app.cfg.AuthRefreshKey)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initHTTP() {
	app.router = crmhttp.NewRouter(
		app.manager,
		app.facade,
		app.registry,
		app.db,
		app.logger,
		app.cfg.CookieName,
		app.cfg.SessionTTL,
		BuildVersion,
	)
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
