package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

type Service struct {
	movies    movierepo.Repository
	directors directorrepo.Repository
}

func NewService(moviesRepo movierepo.Repository, directorsRepo directorrepo.Repository) *Service {
	return &Service{movies: moviesRepo, directors: directorsRepo}
}

func (s *Service) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	ms, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainList(ms), nil
}

func (s *Service) ListMoviesByDirector(ctx context.Context, directorID domain.DirectorID) ([]domain.Movie, error) {
	if _, err := s.directors.GetByID(ctx, directorID); err != nil {
		if errors.Is(err, directorrepo.ErrNotFound) {
			return nil, directorNotFound()
		}
		return nil, err
	}
	ms, err := s.movies.ListByDirector(ctx, directorID)
	if err != nil {
		return nil, err
	}
	return toDomainList(ms), nil
}

func (s *Service) GetMovie(ctx context.Context, id domain.MovieID) (domain.Movie, error) {
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, movierepo.ErrNotFound) {
			return domain.Movie{}, movieNotFound()
		}
		return domain.Movie{}, err
	}
	return toDomain(m), nil
}

// CreateMovie stores a new movie. When a movie with the same title already
// exists it is returned unchanged with created=false and the director input is
// not resolved.
func (s *Service) CreateMovie(ctx context.Context, in MovieInput) (m domain.Movie, created bool, err error) {
	title, year, err := validateTitleAndYear(in.Title, in.ReleaseYear)
	if err != nil {
		return domain.Movie{}, false, err
	}
	if existing, ok, err := s.findByTitle(ctx, title); err != nil || ok {
		return existing, false, err
	}
	dir, err := s.resolveDirector(ctx, in.Director)
	if err != nil {
		return domain.Movie{}, false, err
	}

	rec, err := s.movies.Create(ctx, movierepo.Movie{
		Title:       title,
		ReleaseYear: year,
		DirectorID:  dir.ID,
	})
	if errors.Is(err, movierepo.ErrTitleTaken) {
		// Lost a race with a concurrent create of the same title.
		if existing, ok, ferr := s.findByTitle(ctx, title); ferr == nil && ok {
			return existing, false, nil
		}
	}
	if err != nil {
		return domain.Movie{}, false, mapWriteError(err, title)
	}
	return toDomain(rec), true, nil
}

func (s *Service) UpdateMovie(ctx context.Context, in MovieInput) (domain.Movie, error) {
	if in.ID == nil {
		return domain.Movie{}, &Error{
			Status:  400,
			Code:    CodeValidation,
			Message: "there must be a movie ID",
			Details: map[string]any{"id": "required"},
		}
	}
	id := domain.MovieID(*in.ID)
	if _, err := s.movies.GetByID(ctx, id); err != nil {
		if errors.Is(err, movierepo.ErrNotFound) {
			return domain.Movie{}, movieNotFound()
		}
		return domain.Movie{}, err
	}

	title, year, err := validateTitleAndYear(in.Title, in.ReleaseYear)
	if err != nil {
		return domain.Movie{}, err
	}
	if err := s.ensureTitleFree(ctx, title, id); err != nil {
		return domain.Movie{}, err
	}
	dir, err := s.resolveDirector(ctx, in.Director)
	if err != nil {
		return domain.Movie{}, err
	}

	m, err := s.movies.Update(ctx, movierepo.Movie{
		ID:          id,
		Title:       title,
		ReleaseYear: year,
		DirectorID:  dir.ID,
	})
	if err != nil {
		return domain.Movie{}, mapWriteError(err, title)
	}
	return toDomain(m), nil
}

func (s *Service) PatchMovie(ctx context.Context, id domain.MovieID, in PatchMovieInput) (domain.Movie, error) {
	cur, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, movierepo.ErrNotFound) {
			return domain.Movie{}, movieNotFound()
		}
		return domain.Movie{}, err
	}

	next := cur
	if in.Title.IsSpecified() {
		if in.Title.IsNull() {
			return domain.Movie{}, validationError("title", "cannot be null")
		}
		title := domain.NormalizeHumanName(in.Title.Value())
		if title == "" {
			return domain.Movie{}, validationError("title", "must be non-empty")
		}
		if err := s.ensureTitleFree(ctx, title, id); err != nil {
			return domain.Movie{}, err
		}
		next.Title = title
	}
	if in.ReleaseYear.IsSpecified() {
		if in.ReleaseYear.IsNull() {
			return domain.Movie{}, validationError("releaseYear", "cannot be null")
		}
		if !domain.ValidReleaseYear(in.ReleaseYear.Value()) {
			return domain.Movie{}, releaseYearError()
		}
		next.ReleaseYear = in.ReleaseYear.Value()
	}
	if in.DirectorID.IsSpecified() || in.DirectorName.IsSpecified() {
		var ref DirectorInput
		if in.DirectorID.IsSpecified() && !in.DirectorID.IsNull() {
			v := in.DirectorID.Value()
			ref.ID = &v
		}
		if in.DirectorName.IsSpecified() && !in.DirectorName.IsNull() {
			v := in.DirectorName.Value()
			ref.Name = &v
		}
		dir, err := s.resolveDirector(ctx, ref)
		if err != nil {
			return domain.Movie{}, err
		}
		next.DirectorID = dir.ID
	}

	m, err := s.movies.Update(ctx, next)
	if err != nil {
		return domain.Movie{}, mapWriteError(err, next.Title)
	}
	return toDomain(m), nil
}

func (s *Service) DeleteMovie(ctx context.Context, id domain.MovieID) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		if errors.Is(err, movierepo.ErrNotFound) {
			return movieNotFound()
		}
		return err
	}
	return nil
}

func (s *Service) findByTitle(ctx context.Context, title string) (domain.Movie, bool, error) {
	m, err := s.movies.GetByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, movierepo.ErrNotFound) {
			return domain.Movie{}, false, nil
		}
		return domain.Movie{}, false, err
	}
	return toDomain(m), true, nil
}

func (s *Service) ensureTitleFree(ctx context.Context, title string, self domain.MovieID) error {
	existing, ok, err := s.findByTitle(ctx, title)
	if err != nil || !ok || existing.ID == self {
		return err
	}
	return titleTaken(title)
}

func validateTitleAndYear(titleIn *string, yearIn *int) (string, int, error) {
	if titleIn == nil {
		return "", 0, validationError("title", "required")
	}
	title := domain.NormalizeHumanName(*titleIn)
	if title == "" {
		return "", 0, validationError("title", "must be non-empty")
	}
	if yearIn == nil {
		return "", 0, validationError("releaseYear", "required")
	}
	if !domain.ValidReleaseYear(*yearIn) {
		return "", 0, releaseYearError()
	}
	return title, *yearIn, nil
}

func releaseYearError() *Error {
	return &Error{
		Status:  400,
		Code:    CodeValidation,
		Message: "invalid releaseYear",
		Details: map[string]any{"releaseYear": fmt.Sprintf("must be between %d and %d", domain.MinReleaseYear, domain.MaxReleaseYear)},
	}
}

// mapWriteError translates repository write failures, including constraint races that
// slipped past the pre-checks.
func mapWriteError(err error, title string) error {
	switch {
	case errors.Is(err, movierepo.ErrNotFound):
		return movieNotFound()
	case errors.Is(err, movierepo.ErrTitleTaken):
		return titleTaken(title)
	case errors.Is(err, movierepo.ErrDirectorNotFound):
		return directorNotFound()
	default:
		return err
	}
}

func toDomain(m movierepo.Movie) domain.Movie {
	return domain.Movie{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Director:    domain.DirectorRef{ID: m.DirectorID, Name: m.DirectorName},
	}
}

func toDomainList(ms []movierepo.Movie) []domain.Movie {
	out := make([]domain.Movie, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomain(m))
	}
	return out
}
