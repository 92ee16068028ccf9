package directors

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

type Service struct {
	repo   directorrepo.Repository
	movies movierepo.Repository
}

func NewService(repo directorrepo.Repository, moviesRepo movierepo.Repository) *Service {
	return &Service{repo: repo, movies: moviesRepo}
}

// ListDirectors returns every director with its movies attached.
func (s *Service) ListDirectors(ctx context.Context) ([]domain.Director, error) {
	ds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	ms, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}
	byDirector := make(map[domain.DirectorID][]domain.Movie, len(ds))
	for _, m := range ms {
		byDirector[m.DirectorID] = append(byDirector[m.DirectorID], movieToDomain(m))
	}
	out := make([]domain.Director, 0, len(ds))
	for _, d := range ds {
		dd := toDomain(d)
		dd.Movies = byDirector[d.ID]
		if dd.Movies == nil {
			dd.Movies = []domain.Movie{}
		}
		out = append(out, dd)
	}
	return out, nil
}

func (s *Service) GetDirector(ctx context.Context, id domain.DirectorID) (domain.Director, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, directorrepo.ErrNotFound) {
			return domain.Director{}, notFound()
		}
		return domain.Director{}, err
	}
	ms, err := s.movies.ListByDirector(ctx, id)
	if err != nil {
		return domain.Director{}, err
	}
	out := toDomain(d)
	out.Movies = make([]domain.Movie, 0, len(ms))
	for _, m := range ms {
		out.Movies = append(out.Movies, movieToDomain(m))
	}
	return out, nil
}

// CreateDirector finds or creates a director by name.
// created is false when a director with the same name already existed.
func (s *Service) CreateDirector(ctx context.Context, in CreateDirectorInput) (d domain.Director, created bool, err error) {
	name, verr := validateName(in.Name)
	if verr != nil {
		return domain.Director{}, false, verr
	}
	rec, created, err := s.repo.FindOrCreate(ctx, name)
	if err != nil {
		return domain.Director{}, false, err
	}
	logr.FromContextOrDiscard(ctx).V(1).Info("director resolved by name", "directorId", int(rec.ID), "created", created)

	out, err := s.GetDirector(ctx, rec.ID)
	if err != nil {
		return domain.Director{}, false, err
	}
	return out, created, nil
}

func (s *Service) UpdateDirector(ctx context.Context, in UpdateDirectorInput) (domain.Director, error) {
	if in.ID == nil {
		return domain.Director{}, &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "there must be a director ID",
			Details: map[string]any{"id": "required"},
		}
	}
	name, verr := validateName(in.Name)
	if verr != nil {
		return domain.Director{}, verr
	}
	id := domain.DirectorID(*in.ID)
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return domain.Director{}, err
	}
	if err := s.repo.Update(ctx, directorrepo.Director{ID: id, Name: name}); err != nil {
		switch {
		case errors.Is(err, directorrepo.ErrNotFound):
			return domain.Director{}, notFound()
		case errors.Is(err, directorrepo.ErrNameTaken):
			return domain.Director{}, nameTaken(name)
		default:
			return domain.Director{}, err
		}
	}
	return s.GetDirector(ctx, id)
}

// ensureNameFree reports a conflict when another director already holds name.
// The repository's unique constraint still covers concurrent renames.
func (s *Service) ensureNameFree(ctx context.Context, name string, self domain.DirectorID) error {
	d, err := s.repo.GetByName(ctx, name)
	switch {
	case errors.Is(err, directorrepo.ErrNotFound):
		return nil
	case err != nil:
		return err
	case d.ID != self:
		return nameTaken(name)
	}
	return nil
}

// DeleteDirector removes the director and all of its movies.
func (s *Service) DeleteDirector(ctx context.Context, id domain.DirectorID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, directorrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

func validateName(p *string) (string, *Error) {
	if p == nil {
		return "", &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "there must be a director name",
			Details: map[string]any{"name": "required"},
		}
	}
	name := domain.NormalizeHumanName(*p)
	if name == "" {
		return "", &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "invalid director name",
			Details: map[string]any{"name": "must be non-empty"},
		}
	}
	return name, nil
}

func toDomain(d directorrepo.Director) domain.Director {
	return domain.Director{ID: d.ID, Name: d.Name}
}

func movieToDomain(m movierepo.Movie) domain.Movie {
	return domain.Movie{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Director:    domain.DirectorRef{ID: m.DirectorID, Name: m.DirectorName},
	}
}
