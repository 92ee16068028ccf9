package directorrepo

import (
	"context"
	"sort"

	"github.com/cinedex/catalog-api/internal/adapters/memory/memdb"
	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
)

// Repo is an in-memory implementation of directorrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	db *memdb.DB
}

func NewRepo(db *memdb.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) FindOrCreate(ctx context.Context, name string) (directorrepo.Director, bool, error) {
	_ = ctx
	var (
		out     directorrepo.Director
		created bool
	)
	err := r.db.Update(func(t *memdb.Tables) error {
		if d, ok := findByName(t, name); ok {
			out = d
			return nil
		}
		out = insert(t, name)
		created = true
		return nil
	})
	return out, created, err
}

func (r *Repo) Update(ctx context.Context, d directorrepo.Director) error {
	_ = ctx
	return r.db.Update(func(t *memdb.Tables) error {
		if _, ok := t.Directors[d.ID]; !ok {
			return directorrepo.ErrNotFound
		}
		if other, ok := findByName(t, d.Name); ok && other.ID != d.ID {
			return directorrepo.ErrNameTaken
		}
		t.Directors[d.ID] = memdb.DirectorRow{ID: d.ID, Name: d.Name}
		return nil
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.DirectorID) (directorrepo.Director, error) {
	_ = ctx
	var out directorrepo.Director
	err := r.db.View(func(t *memdb.Tables) error {
		row, ok := t.Directors[id]
		if !ok {
			return directorrepo.ErrNotFound
		}
		out = fromRow(row)
		return nil
	})
	return out, err
}

func (r *Repo) GetByName(ctx context.Context, name string) (directorrepo.Director, error) {
	_ = ctx
	var out directorrepo.Director
	err := r.db.View(func(t *memdb.Tables) error {
		d, ok := findByName(t, name)
		if !ok {
			return directorrepo.ErrNotFound
		}
		out = d
		return nil
	})
	return out, err
}

func (r *Repo) List(ctx context.Context) ([]directorrepo.Director, error) {
	_ = ctx
	var out []directorrepo.Director
	_ = r.db.View(func(t *memdb.Tables) error {
		out = make([]directorrepo.Director, 0, len(t.Directors))
		for _, row := range t.Directors {
			out = append(out, fromRow(row))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.DirectorID) error {
	_ = ctx
	return r.db.Update(func(t *memdb.Tables) error {
		if _, ok := t.Directors[id]; !ok {
			return directorrepo.ErrNotFound
		}
		for mid, m := range t.Movies {
			if m.DirectorID == id {
				delete(t.Movies, mid)
			}
		}
		delete(t.Directors, id)
		return nil
	})
}

func findByName(t *memdb.Tables, name string) (directorrepo.Director, bool) {
	for _, row := range t.Directors {
		if row.Name == name {
			return fromRow(row), true
		}
	}
	return directorrepo.Director{}, false
}

func insert(t *memdb.Tables, name string) directorrepo.Director {
	row := memdb.DirectorRow{ID: t.NextDirectorID(), Name: name}
	t.Directors[row.ID] = row
	return fromRow(row)
}

func fromRow(row memdb.DirectorRow) directorrepo.Director {
	return directorrepo.Director{ID: row.ID, Name: row.Name}
}
