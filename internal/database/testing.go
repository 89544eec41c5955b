package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDatabaseURLEnv names the variable holding an integration-test DSN.
const TestDatabaseURLEnv = "GFPS_TEST_DATABASE_URL"

// SetupTestDB connects to the database named by GFPS_TEST_DATABASE_URL and
// applies the schema. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("integration test: set %s to run", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	db := &DB{pool: pool}

	if err := db.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		pool.Close()
		t.Fatalf("failed to apply test schema: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}

// TruncateTestTables empties the repository tables between tests.
func TruncateTestTables(t *testing.T, db *DB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "TRUNCATE match_results, team_stats"); err != nil {
		t.Fatalf("failed to truncate test tables: %v", err)
	}
}
