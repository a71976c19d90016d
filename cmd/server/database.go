package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/platform/postgres"
)

// setupAppDatabase opens the connection pool configured in cfg.Database.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns)
	return db, nil
}
