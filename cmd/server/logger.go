package main

import (
	"fmt"
	"log/slog"

	"github.com/taskr/taskr-api/internal/config"
	"github.com/taskr/taskr-api/internal/platform/logger"
)

// setupAppLogger installs the JSON logger as the slog default.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	if !cfg.Cookie.Secure {
		l.Warn("Session cookies are sent without the Secure flag")
	}
	return l, nil
}
