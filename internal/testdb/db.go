//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"
	"github.com/taskr/taskr-api/internal/ciutil"
	"github.com/taskr/taskr-api/internal/platform/postgres"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage  = "postgres:16-alpine"
	startupTimeout = 60 * time.Second
)

var (
	setupOnce sync.Once
	sharedDB  *sql.DB
	setupErr  error
)

// GetTestDBWithT returns the shared, migrated test database.
// The connection is owned by the package and must not be closed by tests.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	setupOnce.Do(func() {
		sharedDB, setupErr = setup(context.Background())
	})
	require.NoError(t, setupErr, "failed to set up test database")
	return sharedDB
}

func setup(ctx context.Context) (*sql.DB, error) {
	log := slog.Default().With(slog.String("component", "testdb"))

	dbURL := ciutil.TestDatabaseURL(log)
	if dbURL == "" {
		if ciutil.IsCI() {
			log.Warn("no test database URL set in CI, starting a container",
				slog.String("env", ciutil.EnvTestDatabaseURL))
		}
		var err error
		dbURL, err = startContainer(ctx)
		if err != nil {
			return nil, err
		}
	}

	log.Info("using test database", slog.String("url", ciutil.MaskSensitiveValue(dbURL)))

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open test database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping test database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// startContainer launches PostgreSQL and returns its connection string.
// The container is removed by the testcontainers reaper when the test binary exits.
func startContainer(ctx context.Context) (string, error) {
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("taskr_test"),
		tcpostgres.WithUsername("taskr"),
		tcpostgres.WithPassword("taskr"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("failed to get container connection string: %w", err)
	}
	return connStr, nil
}

// WithTx executes fn inside a transaction that is rolled back afterwards,
// so tests can run in parallel without seeing each other's data.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
