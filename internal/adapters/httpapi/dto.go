package httpapi

import (
	"github.com/oapi-codegen/nullable"

	"github.com/cinedex/catalog-api/internal/app/movies"
	"github.com/cinedex/catalog-api/internal/domain"
)

type Movie struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	ReleaseYear  int    `json:"releaseYear"`
	DirectorID   int    `json:"directorId"`
	DirectorName string `json:"directorName"`
}

type Director struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Movies []Movie `json:"movies"`
}

type MovieResponse struct {
	Movie Movie `json:"movie"`
}

type MoviesResponse struct {
	Movies []Movie `json:"movies"`
}

type DirectorResponse struct {
	Director Director `json:"director"`
}

type DirectorsResponse struct {
	Directors []Director `json:"directors"`
}

// DirectorRequest is the body of POST and PUT on /directors.
type DirectorRequest struct {
	ID   *int    `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// MovieRequest is the body of POST and PUT on /movies. The director is
// referenced by directorId, directorName or both.
type MovieRequest struct {
	ID           *int    `json:"id,omitempty"`
	Title        *string `json:"title,omitempty"`
	ReleaseYear  *int    `json:"releaseYear,omitempty"`
	DirectorID   *int    `json:"directorId,omitempty"`
	DirectorName *string `json:"directorName,omitempty"`
}

// PatchMovieRequest distinguishes omitted fields from explicit nulls.
type PatchMovieRequest struct {
	Title        nullable.Nullable[string] `json:"title,omitempty"`
	ReleaseYear  nullable.Nullable[int]    `json:"releaseYear,omitempty"`
	DirectorID   nullable.Nullable[int]    `json:"directorId,omitempty"`
	DirectorName nullable.Nullable[string] `json:"directorName,omitempty"`
}

func movieFromDomain(m domain.Movie) Movie {
	return Movie{
		ID:           int(m.ID),
		Title:        m.Title,
		ReleaseYear:  m.ReleaseYear,
		DirectorID:   int(m.Director.ID),
		DirectorName: m.Director.Name,
	}
}

func moviesFromDomain(ms []domain.Movie) []Movie {
	out := make([]Movie, 0, len(ms))
	for _, m := range ms {
		out = append(out, movieFromDomain(m))
	}
	return out
}

func directorFromDomain(d domain.Director) Director {
	return Director{
		ID:     int(d.ID),
		Name:   d.Name,
		Movies: moviesFromDomain(d.Movies),
	}
}

func (b MovieRequest) toInput() movies.MovieInput {
	return movies.MovieInput{
		ID:          b.ID,
		Title:       b.Title,
		ReleaseYear: b.ReleaseYear,
		Director: movies.DirectorInput{
			ID:   b.DirectorID,
			Name: b.DirectorName,
		},
	}
}

func (b PatchMovieRequest) toInput() movies.PatchMovieInput {
	return movies.PatchMovieInput{
		Title:        optionalFromNullable(b.Title),
		ReleaseYear:  optionalFromNullable(b.ReleaseYear),
		DirectorID:   optionalFromNullable(b.DirectorID),
		DirectorName: optionalFromNullable(b.DirectorName),
	}
}

func optionalFromNullable[T any](n nullable.Nullable[T]) movies.Optional[T] {
	if !n.IsSpecified() {
		return movies.Unspecified[T]()
	}
	if n.IsNull() {
		return movies.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return movies.Unspecified[T]()
	}
	return movies.Some(v)
}
