//go:build integration

// Package testdb provides utilities for database integration tests.
//
// A single PostgreSQL container is started on first use through
// testcontainers-go and shared by every test in the process. Set
// TASKR_TEST_DATABASE_URL to run against an existing database instead.
// The schema is created with the application's own goose migrations.
//
// Tests isolate themselves with WithTx, which runs the test body inside a
// transaction that is always rolled back:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
