// Package sqlmigrate applies embedded golang-migrate sources to the SQL
// backends.
package sqlmigrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-logr/logr"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrDirty means an earlier run failed halfway. The schema has to be repaired
// and the version forced by hand before migrating again.
var ErrDirty = errors.New("schema is dirty")

// Up applies every pending migration found under dir in fsys. It takes
// ownership of drv and closes it before returning.
func Up(ctx context.Context, fsys fs.FS, dir, dbName string, drv database.Driver) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		_ = drv.Close()
		return fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, dbName, drv)
	if err != nil {
		_ = src.Close()
		_ = drv.Close()
		return fmt.Errorf("init %s migrations: %w", dbName, err)
	}
	defer m.Close()
	return Run(ctx, m)
}

// Run migrates m to the latest version. Cancelling ctx stops after the
// migration in flight.
func Run(ctx context.Context, m *migrate.Migrate) error {
	log := logr.FromContextOrDiscard(ctx)
	m.Log = logger{log: log}
	stop := context.AfterFunc(ctx, func() { m.GracefulStop <- true })
	defer stop()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w at version %d", ErrDirty, from)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	if to == from {
		log.Info("schema up to date", "version", to)
	} else {
		log.Info("schema migrated", "from", from, "to", to)
	}
	return nil
}

// logger routes golang-migrate's progress lines to logr at V(1).
type logger struct {
	log logr.Logger
}

func (l logger) Printf(format string, v ...any) {
	l.log.V(1).Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l logger) Verbose() bool {
	return l.log.V(1).Enabled()
}
