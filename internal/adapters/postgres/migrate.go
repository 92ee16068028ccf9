package postgres

import (
	"context"
	"embed"
	"fmt"

	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/cinedex/catalog-api/internal/adapters/sqlmigrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsTable records the applied schema version and dirty flag.
const MigrationsTable = "catalog_schema_migrations"

// Migrate brings the schema to the latest embedded version. golang-migrate
// works on a database/sql handle borrowed from pool; closing that handle
// leaves the pool open.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	drv, err := migratepgx.WithInstance(db, &migratepgx.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("postgres migration driver: %w", err)
	}
	return sqlmigrate.Up(ctx, migrationFS, "migrations", "pgx5", drv)
}
