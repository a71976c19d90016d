package main

import (
	"fmt"
	"log/slog"

	"github.com/taskr/taskr-api/internal/config"
)

// loadAppConfig reads .env, config.yaml and TASKR_* variables. Secrets are
// never logged; only whether the optional ones are set.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("auto_migrate", cfg.Database.AutoMigrate),
		slog.Bool("separate_refresh_secret", cfg.Auth.RefreshSecret != ""))
	return cfg, nil
}
