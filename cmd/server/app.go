package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/platform/postgres"
	"github.com/taskr/taskr-api/internal/service"
	"github.com/taskr/taskr-api/internal/service/auth"
	"github.com/taskr/taskr-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService     auth.JWTService
	sessionService service.SessionService
	taskService    service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// db may be nil in tests that supply their own stores through newApplicationWithStores.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return newApplicationWithStores(
		cfg,
		logger,
		db,
		postgres.NewPostgresUserStore(db, logger),
		postgres.NewPostgresTaskStore(db, logger),
	)
}

// newApplicationWithStores wires services on top of the given stores.
func newApplicationWithStores(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	userStore store.UserStore,
	taskStore store.TaskStore,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		userStore: userStore,
		taskStore: taskStore,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.sessionService = service.NewSessionService(app.userStore, app.jwtService, hasher, hasher, logger)
	app.taskService = service.NewTaskService(app.taskStore, db, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
