package mysql

import (
	"context"
	"embed"
	"fmt"

	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"

	"github.com/cinedex/catalog-api/internal/adapters/sqlmigrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsTable records the applied schema version and dirty flag.
const MigrationsTable = "catalog_schema_migrations"

// Migrate brings the schema to the latest embedded version. golang-migrate
// closes the handle it is given, so the migration runs on its own
// connection rather than on the serving pool.
func Migrate(ctx context.Context, dsn string) error {
	db, err := Open(ctx, Options{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	drv, err := migratemysql.WithInstance(db, &migratemysql.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("mysql migration driver: %w", err)
	}
	return sqlmigrate.Up(ctx, migrationFS, "migrations", "mysql", drv)
}
