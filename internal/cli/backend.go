package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinedex/catalog-api/internal/adapters/instrumented"
	memdirectorrepo "github.com/cinedex/catalog-api/internal/adapters/memory/directorrepo"
	memidempotency "github.com/cinedex/catalog-api/internal/adapters/memory/idempotency"
	"github.com/cinedex/catalog-api/internal/adapters/memory/memdb"
	memmovierepo "github.com/cinedex/catalog-api/internal/adapters/memory/movierepo"
	"github.com/cinedex/catalog-api/internal/adapters/mysql"
	mydirectorrepo "github.com/cinedex/catalog-api/internal/adapters/mysql/directorrepo"
	myidempotency "github.com/cinedex/catalog-api/internal/adapters/mysql/idempotency"
	mymovierepo "github.com/cinedex/catalog-api/internal/adapters/mysql/movierepo"
	postgres "github.com/cinedex/catalog-api/internal/adapters/postgres"
	pgdirectorrepo "github.com/cinedex/catalog-api/internal/adapters/postgres/directorrepo"
	pgidempotency "github.com/cinedex/catalog-api/internal/adapters/postgres/idempotency"
	pgmovierepo "github.com/cinedex/catalog-api/internal/adapters/postgres/movierepo"
	"github.com/cinedex/catalog-api/internal/platform/config"
	clockport "github.com/cinedex/catalog-api/internal/ports/out/clock"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	"github.com/cinedex/catalog-api/internal/ports/out/idempotency"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

var errNoSchema = errors.New("the memory backend has no schema to migrate")

// backend bundles the repositories of one storage backend.
type backend struct {
	name      string
	directors directorrepo.Repository
	movies    movierepo.Repository
	idem      idempotency.Store
	migrate   func(ctx context.Context) error
	close     func()
}

func openBackend(ctx context.Context, cfg config.Config, clk clockport.Clock) (*backend, error) {
	st := cfg.Storage
	switch st.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, st.DatabaseURL, postgres.PoolOptions{
			MaxConns:    int32(st.MaxConns),
			PingTimeout: st.ConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &backend{
			name:      st.Backend,
			directors: pgdirectorrepo.NewRepo(pool),
			movies:    pgmovierepo.NewRepo(pool),
			idem:      pgidempotency.NewStore(pool),
			migrate:   func(ctx context.Context) error { return postgres.Migrate(ctx, pool) },
			close:     pool.Close,
		}, nil

	case config.BackendMySQL:
		db, err := mysql.Open(ctx, mysql.Options{
			DSN:          st.MySQLDSN,
			MaxOpenConns: st.MaxConns,
			MaxIdleConns: st.MaxConns,
			PingTimeout:  st.ConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return &backend{
			name:      st.Backend,
			directors: mydirectorrepo.NewRepo(db),
			movies:    mymovierepo.NewRepo(db),
			idem:      myidempotency.NewStore(db),
			migrate:   func(ctx context.Context) error { return mysql.Migrate(ctx, st.MySQLDSN) },
			close:     func() { _ = db.Close() },
		}, nil

	default:
		db := memdb.New()
		return &backend{
			name:      config.BackendMemory,
			directors: memdirectorrepo.NewRepo(db),
			movies:    memmovierepo.NewRepo(db),
			idem:      memidempotency.NewStoreWithTTL(clk, cfg.Idempotency.TTL),
			migrate:   func(context.Context) error { return errNoSchema },
			close:     func() {},
		}, nil
	}
}

// instrument wraps every repository so calls are counted per backend.
func (b *backend) instrument(rec instrumented.Recorder) {
	b.directors = instrumented.Directors(b.directors, rec, b.name)
	b.movies = instrumented.Movies(b.movies, rec, b.name)
	b.idem = instrumented.Idempotency(b.idem, rec, b.name)
}

// prepare applies migrations when configured to.
func (b *backend) prepare(ctx context.Context, cfg config.Config) error {
	if !cfg.Storage.MigrateOnStart || b.name == config.BackendMemory {
		return nil
	}
	return b.migrate(ctx)
}
