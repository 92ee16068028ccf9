package directorrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	postgres "github.com/cinedex/catalog-api/internal/adapters/postgres"
	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
)

const nameConstraint = "directors_name_unique"

// Repo is a Postgres implementation of directorrepo.Repository.
type Repo struct {
	db postgres.DB
}

func NewRepo(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) FindOrCreate(ctx context.Context, name string) (directorrepo.Director, bool, error) {
	if r.db == nil {
		return directorrepo.Director{}, false, errors.New("nil postgres pool")
	}
	var (
		out     directorrepo.Director
		created bool
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO directors (name) VALUES ($1)
			ON CONFLICT ON CONSTRAINT directors_name_unique DO NOTHING
			RETURNING id
		`, name).Scan(&id)
		switch {
		case err == nil:
			out = directorrepo.Director{ID: domain.DirectorID(id), Name: name}
			created = true
			return nil
		case errors.Is(err, pgx.ErrNoRows):
			d, err := getByName(ctx, tx, name)
			if err != nil {
				return err
			}
			out = d
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return directorrepo.Director{}, false, err
	}
	return out, created, nil
}

func (r *Repo) Update(ctx context.Context, d directorrepo.Director) error {
	if r.db == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.db.Exec(ctx, `UPDATE directors SET name = $2 WHERE id = $1`, int64(d.ID), d.Name)
	if err != nil {
		if postgres.IsUniqueViolation(err, nameConstraint) {
			return directorrepo.ErrNameTaken
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return directorrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.DirectorID) (directorrepo.Director, error) {
	if r.db == nil {
		return directorrepo.Director{}, errors.New("nil postgres pool")
	}
	return scanOne(r.db.QueryRow(ctx, `SELECT id, name FROM directors WHERE id = $1`, int64(id)))
}

func (r *Repo) GetByName(ctx context.Context, name string) (directorrepo.Director, error) {
	if r.db == nil {
		return directorrepo.Director{}, errors.New("nil postgres pool")
	}
	return getByName(ctx, r.db, name)
}

func (r *Repo) List(ctx context.Context) ([]directorrepo.Director, error) {
	if r.db == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.db.Query(ctx, `SELECT id, name FROM directors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directorrepo.Director, 0)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out = append(out, directorrepo.Director{ID: domain.DirectorID(id), Name: name})
	}
	return out, rows.Err()
}

// Delete relies on the movies_director_fk ON DELETE CASCADE rule; the explicit
// movie delete keeps the behavior when the schema predates it.
func (r *Repo) Delete(ctx context.Context, id domain.DirectorID) error {
	if r.db == nil {
		return errors.New("nil postgres pool")
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM movies WHERE director_id = $1`, int64(id)); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM directors WHERE id = $1`, int64(id))
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return directorrepo.ErrNotFound
		}
		return nil
	})
}

func getByName(ctx context.Context, q postgres.Querier, name string) (directorrepo.Director, error) {
	return scanOne(q.QueryRow(ctx, `SELECT id, name FROM directors WHERE name = $1`, name))
}

func scanOne(row pgx.Row) (directorrepo.Director, error) {
	var (
		id   int64
		name string
	)
	if err := row.Scan(&id, &name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return directorrepo.Director{}, directorrepo.ErrNotFound
		}
		return directorrepo.Director{}, err
	}
	return directorrepo.Director{ID: domain.DirectorID(id), Name: name}, nil
}
