package movierepo

import (
	"context"

	"github.com/cinedex/catalog-api/internal/domain"
)

// Movie is the persistence shape used by the movie repository.
//
// DirectorName is read-only: it is filled from the directors table on reads and
// ignored on writes.
type Movie struct {
	ID           domain.MovieID
	Title        string
	ReleaseYear  int
	DirectorID   domain.DirectorID
	DirectorName string
}

// Repository provides access to persisted movies.
//
// Result ordering expectations:
// - List/ListByDirector return movies ordered by ID ascending.
type Repository interface {
	// Create inserts a movie and returns it with its generated ID and director name.
	Create(ctx context.Context, m Movie) (Movie, error)
	// Update replaces title, release year and director of an existing movie.
	Update(ctx context.Context, m Movie) (Movie, error)

	GetByID(ctx context.Context, id domain.MovieID) (Movie, error)
	GetByTitle(ctx context.Context, title string) (Movie, error)
	List(ctx context.Context) ([]Movie, error)
	ListByDirector(ctx context.Context, directorID domain.DirectorID) ([]Movie, error)

	Delete(ctx context.Context, id domain.MovieID) error
}
