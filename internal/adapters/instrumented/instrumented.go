// Package instrumented wraps repository ports so every call is counted per
// backend and outcome.
package instrumented

import (
	"context"
	"errors"

	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/platform/metrics"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	"github.com/cinedex/catalog-api/internal/ports/out/idempotency"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

// Recorder is satisfied by *metrics.Metrics.
type Recorder interface {
	ObserveRepository(backend, operation, status string)
}

// outcome classifies a repository result. Sentinel not-found errors are
// ordinary answers to a lookup and are kept apart from real failures.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, directorrepo.ErrNotFound), errors.Is(err, movierepo.ErrNotFound):
		return metrics.StatusNotFound
	default:
		return metrics.StatusFailure
	}
}

type DirectorRepo struct {
	next    directorrepo.Repository
	rec     Recorder
	backend string
}

func Directors(next directorrepo.Repository, rec Recorder, backend string) *DirectorRepo {
	return &DirectorRepo{next: next, rec: rec, backend: backend}
}

func (r *DirectorRepo) observe(op string, err error) {
	r.rec.ObserveRepository(r.backend, "directors."+op, outcome(err))
}

func (r *DirectorRepo) FindOrCreate(ctx context.Context, name string) (directorrepo.Director, bool, error) {
	d, created, err := r.next.FindOrCreate(ctx, name)
	r.observe("find_or_create", err)
	return d, created, err
}

func (r *DirectorRepo) Update(ctx context.Context, d directorrepo.Director) error {
	err := r.next.Update(ctx, d)
	r.observe("update", err)
	return err
}

func (r *DirectorRepo) GetByID(ctx context.Context, id domain.DirectorID) (directorrepo.Director, error) {
	d, err := r.next.GetByID(ctx, id)
	r.observe("get_by_id", err)
	return d, err
}

func (r *DirectorRepo) GetByName(ctx context.Context, name string) (directorrepo.Director, error) {
	d, err := r.next.GetByName(ctx, name)
	r.observe("get_by_name", err)
	return d, err
}

func (r *DirectorRepo) List(ctx context.Context) ([]directorrepo.Director, error) {
	ds, err := r.next.List(ctx)
	r.observe("list", err)
	return ds, err
}

func (r *DirectorRepo) Delete(ctx context.Context, id domain.DirectorID) error {
	err := r.next.Delete(ctx, id)
	r.observe("delete", err)
	return err
}

type MovieRepo struct {
	next    movierepo.Repository
	rec     Recorder
	backend string
}

func Movies(next movierepo.Repository, rec Recorder, backend string) *MovieRepo {
	return &MovieRepo{next: next, rec: rec, backend: backend}
}

func (r *MovieRepo) observe(op string, err error) {
	r.rec.ObserveRepository(r.backend, "movies."+op, outcome(err))
}

func (r *MovieRepo) Create(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	out, err := r.next.Create(ctx, m)
	r.observe("create", err)
	return out, err
}

func (r *MovieRepo) Update(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	out, err := r.next.Update(ctx, m)
	r.observe("update", err)
	return out, err
}

func (r *MovieRepo) GetByID(ctx context.Context, id domain.MovieID) (movierepo.Movie, error) {
	out, err := r.next.GetByID(ctx, id)
	r.observe("get_by_id", err)
	return out, err
}

func (r *MovieRepo) GetByTitle(ctx context.Context, title string) (movierepo.Movie, error) {
	out, err := r.next.GetByTitle(ctx, title)
	r.observe("get_by_title", err)
	return out, err
}

func (r *MovieRepo) List(ctx context.Context) ([]movierepo.Movie, error) {
	out, err := r.next.List(ctx)
	r.observe("list", err)
	return out, err
}

func (r *MovieRepo) ListByDirector(ctx context.Context, directorID domain.DirectorID) ([]movierepo.Movie, error) {
	out, err := r.next.ListByDirector(ctx, directorID)
	r.observe("list_by_director", err)
	return out, err
}

func (r *MovieRepo) Delete(ctx context.Context, id domain.MovieID) error {
	err := r.next.Delete(ctx, id)
	r.observe("delete", err)
	return err
}

type IdempotencyStore struct {
	next    idempotency.Store
	rec     Recorder
	backend string
}

func Idempotency(next idempotency.Store, rec Recorder, backend string) *IdempotencyStore {
	return &IdempotencyStore{next: next, rec: rec, backend: backend}
}

func (s *IdempotencyStore) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	rec, ok, err := s.next.Get(ctx, fp)
	s.rec.ObserveRepository(s.backend, "idempotency.get", outcome(err))
	return rec, ok, err
}

func (s *IdempotencyStore) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	err := s.next.Put(ctx, fp, rec)
	s.rec.ObserveRepository(s.backend, "idempotency.put", outcome(err))
	return err
}
