package directorrepo

import (
	"context"

	"github.com/cinedex/catalog-api/internal/domain"
)

// Director is the persistence shape used by the director repository.
// It does not carry the movie back-reference; callers join movies through movierepo.
type Director struct {
	ID   domain.DirectorID
	Name string
}

// Repository provides access to persisted directors.
//
// Result ordering expectations:
// - List returns directors ordered by ID ascending.
type Repository interface {
	// FindOrCreate returns the director with the given name, inserting it when absent.
	// created reports whether a new row was inserted.
	FindOrCreate(ctx context.Context, name string) (d Director, created bool, err error)
	Update(ctx context.Context, d Director) error

	GetByID(ctx context.Context, id domain.DirectorID) (Director, error)
	// GetByName returns ErrNotFound when no director has exactly this name.
	GetByName(ctx context.Context, name string) (Director, error)
	List(ctx context.Context) ([]Director, error)

	// Delete removes the director together with all of its movies.
	Delete(ctx context.Context, id domain.DirectorID) error
}
