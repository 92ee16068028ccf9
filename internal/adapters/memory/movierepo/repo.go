package movierepo

import (
	"context"
	"sort"

	"github.com/cinedex/catalog-api/internal/adapters/memory/memdb"
	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

// Repo is an in-memory implementation of movierepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	db *memdb.DB
}

func NewRepo(db *memdb.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	_ = ctx
	var out movierepo.Movie
	err := r.db.Update(func(t *memdb.Tables) error {
		if err := checkWrite(t, m, 0); err != nil {
			return err
		}
		row := memdb.MovieRow{
			ID:          t.NextMovieID(),
			Title:       m.Title,
			ReleaseYear: m.ReleaseYear,
			DirectorID:  m.DirectorID,
		}
		t.Movies[row.ID] = row
		out = join(t, row)
		return nil
	})
	return out, err
}

func (r *Repo) Update(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	_ = ctx
	var out movierepo.Movie
	err := r.db.Update(func(t *memdb.Tables) error {
		if _, ok := t.Movies[m.ID]; !ok {
			return movierepo.ErrNotFound
		}
		if err := checkWrite(t, m, m.ID); err != nil {
			return err
		}
		row := memdb.MovieRow{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseYear: m.ReleaseYear,
			DirectorID:  m.DirectorID,
		}
		t.Movies[row.ID] = row
		out = join(t, row)
		return nil
	})
	return out, err
}

func (r *Repo) GetByID(ctx context.Context, id domain.MovieID) (movierepo.Movie, error) {
	_ = ctx
	var out movierepo.Movie
	err := r.db.View(func(t *memdb.Tables) error {
		row, ok := t.Movies[id]
		if !ok {
			return movierepo.ErrNotFound
		}
		out = join(t, row)
		return nil
	})
	return out, err
}

func (r *Repo) GetByTitle(ctx context.Context, title string) (movierepo.Movie, error) {
	_ = ctx
	var out movierepo.Movie
	err := r.db.View(func(t *memdb.Tables) error {
		for _, row := range t.Movies {
			if row.Title == title {
				out = join(t, row)
				return nil
			}
		}
		return movierepo.ErrNotFound
	})
	return out, err
}

func (r *Repo) List(ctx context.Context) ([]movierepo.Movie, error) {
	return r.list(ctx, func(memdb.MovieRow) bool { return true })
}

func (r *Repo) ListByDirector(ctx context.Context, directorID domain.DirectorID) ([]movierepo.Movie, error) {
	return r.list(ctx, func(row memdb.MovieRow) bool { return row.DirectorID == directorID })
}

func (r *Repo) Delete(ctx context.Context, id domain.MovieID) error {
	_ = ctx
	return r.db.Update(func(t *memdb.Tables) error {
		if _, ok := t.Movies[id]; !ok {
			return movierepo.ErrNotFound
		}
		delete(t.Movies, id)
		return nil
	})
}

func (r *Repo) list(ctx context.Context, keep func(memdb.MovieRow) bool) ([]movierepo.Movie, error) {
	_ = ctx
	out := make([]movierepo.Movie, 0)
	_ = r.db.View(func(t *memdb.Tables) error {
		for _, row := range t.Movies {
			if keep(row) {
				out = append(out, join(t, row))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// checkWrite enforces the title unique constraint and the director foreign key.
func checkWrite(t *memdb.Tables, m movierepo.Movie, self domain.MovieID) error {
	if _, ok := t.Directors[m.DirectorID]; !ok {
		return movierepo.ErrDirectorNotFound
	}
	for _, row := range t.Movies {
		if row.Title == m.Title && row.ID != self {
			return movierepo.ErrTitleTaken
		}
	}
	return nil
}

func join(t *memdb.Tables, row memdb.MovieRow) movierepo.Movie {
	return movierepo.Movie{
		ID:           row.ID,
		Title:        row.Title,
		ReleaseYear:  row.ReleaseYear,
		DirectorID:   row.DirectorID,
		DirectorName: t.Directors[row.DirectorID].Name,
	}
}
