package movierepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	postgres "github.com/cinedex/catalog-api/internal/adapters/postgres"
	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

const titleConstraint = "movies_title_unique"

const selectMovies = `
	SELECT m.id, m.title, m.release_year, m.director_id, d.name
	FROM movies m
	JOIN directors d ON d.id = m.director_id
`

// Repo is a Postgres implementation of movierepo.Repository.
type Repo struct {
	db postgres.DB
}

func NewRepo(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("nil postgres pool")
	}
	var out movierepo.Movie
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO movies (title, release_year, director_id)
			VALUES ($1, $2, $3)
			RETURNING id
		`, m.Title, m.ReleaseYear, int64(m.DirectorID)).Scan(&id)
		if err != nil {
			return mapWriteError(err)
		}
		out, err = getByID(ctx, tx, domain.MovieID(id))
		return err
	})
	if err != nil {
		return movierepo.Movie{}, err
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("nil postgres pool")
	}
	var out movierepo.Movie
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
			UPDATE movies
			SET title = $2,
			    release_year = $3,
			    director_id = $4
			WHERE id = $1
		`, int64(m.ID), m.Title, m.ReleaseYear, int64(m.DirectorID))
		if err != nil {
			return mapWriteError(err)
		}
		if ct.RowsAffected() == 0 {
			return movierepo.ErrNotFound
		}
		out, err = getByID(ctx, tx, m.ID)
		return err
	})
	if err != nil {
		return movierepo.Movie{}, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MovieID) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("nil postgres pool")
	}
	return getByID(ctx, r.db, id)
}

func (r *Repo) GetByTitle(ctx context.Context, title string) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("nil postgres pool")
	}
	return scanOne(r.db.QueryRow(ctx, selectMovies+` WHERE m.title = $1`, title))
}

func (r *Repo) List(ctx context.Context) ([]movierepo.Movie, error) {
	if r.db == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.list(ctx, selectMovies+` ORDER BY m.id`)
}

func (r *Repo) ListByDirector(ctx context.Context, directorID domain.DirectorID) ([]movierepo.Movie, error) {
	if r.db == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.list(ctx, selectMovies+` WHERE m.director_id = $1 ORDER BY m.id`, int64(directorID))
}

func (r *Repo) Delete(ctx context.Context, id domain.MovieID) error {
	if r.db == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return movierepo.ErrNotFound
	}
	return nil
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]movierepo.Movie, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]movierepo.Movie, 0)
	for rows.Next() {
		m, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func getByID(ctx context.Context, q postgres.Querier, id domain.MovieID) (movierepo.Movie, error) {
	return scanOne(q.QueryRow(ctx, selectMovies+` WHERE m.id = $1`, int64(id)))
}

func scanOne(row pgx.Row) (movierepo.Movie, error) {
	var (
		id, directorID int64
		m              movierepo.Movie
	)
	if err := row.Scan(&id, &m.Title, &m.ReleaseYear, &directorID, &m.DirectorName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return movierepo.Movie{}, movierepo.ErrNotFound
		}
		return movierepo.Movie{}, err
	}
	m.ID = domain.MovieID(id)
	m.DirectorID = domain.DirectorID(directorID)
	return m, nil
}

func mapWriteError(err error) error {
	switch {
	case postgres.IsUniqueViolation(err, titleConstraint):
		return movierepo.ErrTitleTaken
	case postgres.IsForeignKeyViolation(err):
		return movierepo.ErrDirectorNotFound
	default:
		return err
	}
}
