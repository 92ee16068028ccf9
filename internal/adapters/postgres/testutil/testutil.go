package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	postgres "github.com/cinedex/catalog-api/internal/adapters/postgres"
)

// DatabaseURLEnv points the integration tests at an existing database instead
// of a throwaway container.
const DatabaseURLEnv = "CATALOG_TEST_DATABASE_URL"

// Enabled reports whether Postgres-backed tests should run.
func Enabled() bool {
	if os.Getenv(DatabaseURLEnv) != "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "postgres", "all":
		return true
	default:
		return false
	}
}

// DatabaseURL returns the URL of a Postgres database for integration tests,
// starting a throwaway container unless DatabaseURLEnv is set. The test is
// skipped when Postgres tests are not enabled.
func DatabaseURL(t *testing.T) string {
	t.Helper()
	if !Enabled() {
		t.Skip("postgres tests disabled (set ITEST_BACKEND=postgres or " + DatabaseURLEnv + ")")
	}
	if dsn := os.Getenv(DatabaseURLEnv); dsn != "" {
		return dsn
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("catalog"),
		tcpostgres.WithUsername("catalog"),
		tcpostgres.WithPassword("catalog"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	testcontainers.CleanupContainer(t, container)
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	return dsn
}

// OpenPool opens a pool on the integration database without migrating it.
func OpenPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := DatabaseURL(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{PingTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// OpenMigratedPool returns a pool on a migrated database, skipping the test
// when Postgres tests are not enabled.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := OpenPool(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

// NewMockPool creates a pgxmock pool with regexp query matching.
func NewMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("new mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}
