package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/taskr/taskr-api/internal/platform/logger"
	"github.com/taskr/taskr-api/internal/platform/postgres"
)

// handleMigrations runs a goose migration command against db.
func handleMigrations(ctx context.Context, db *sql.DB, migrateCmd string) error {
	if !slices.Contains(postgres.MigrationCommands, migrateCmd) {
		return fmt.Errorf("invalid migration command %q (expected one of %s)",
			migrateCmd, strings.Join(postgres.MigrationCommands, ", "))
	}

	logger.FromContext(ctx).Info("Executing migrations", "command", migrateCmd)

	if err := postgres.Migrate(ctx, db, migrateCmd); err != nil {
		return fmt.Errorf("migration %s failed: %w", migrateCmd, err)
	}
	return nil
}
