package testutil

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	catalogmysql "github.com/cinedex/catalog-api/internal/adapters/mysql"
)

// DSNEnv points the integration tests at an existing MySQL database instead
// of a throwaway container.
const DSNEnv = "CATALOG_TEST_MYSQL_DSN"

// Enabled reports whether MySQL-backed tests should run.
func Enabled() bool {
	if os.Getenv(DSNEnv) != "" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "mysql", "all":
		return true
	default:
		return false
	}
}

// NewMockDB creates a sqlmock database with regexp query matching.
func NewMockDB() (*sql.DB, sqlmock.Sqlmock, error) {
	return sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
}

// DSN returns the DSN of a MySQL database for integration tests, starting a
// throwaway container unless DSNEnv is set. The test is skipped when MySQL
// tests are not enabled.
func DSN(t *testing.T) string {
	t.Helper()
	if !Enabled() {
		t.Skip("mysql tests disabled (set ITEST_BACKEND=mysql or " + DSNEnv + ")")
	}
	if dsn := os.Getenv(DSNEnv); dsn != "" {
		return dsn
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	container, err := tcmysql.Run(ctx,
		"mysql:8.0",
		tcmysql.WithDatabase("catalog"),
		tcmysql.WithUsername("catalog"),
		tcmysql.WithPassword("catalog"),
	)
	if err != nil {
		t.Fatalf("start mysql container: %v", err)
	}
	testcontainers.CleanupContainer(t, container)
	dsn, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mysql connection string: %v", err)
	}
	return dsn
}

// OpenMigratedDB returns a pool on a migrated database, skipping the test
// when MySQL tests are not enabled.
func OpenMigratedDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := DSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := catalogmysql.Migrate(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := catalogmysql.Open(ctx, catalogmysql.Options{DSN: dsn, PingTimeout: 30 * time.Second})
	if err != nil {
		t.Fatalf("open mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
