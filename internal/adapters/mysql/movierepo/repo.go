package movierepo

import (
	"context"
	"database/sql"
	"errors"

	catalogmysql "github.com/cinedex/catalog-api/internal/adapters/mysql"
	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

const selectMovies = "SELECT m.id, m.title, m.release_year, m.director_id, d.name " +
	"FROM movies m JOIN directors d ON d.id = m.director_id"

// Repo is a MySQL implementation of movierepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("not connected")
	}
	var out movierepo.Movie
	err := catalogmysql.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO movies (title, release_year, director_id) VALUES (?, ?, ?)",
			m.Title, m.ReleaseYear, int64(m.DirectorID))
		if err != nil {
			return mapWriteError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out, err = scanOne(tx.QueryRowContext(ctx, selectMovies+" WHERE m.id = ?", id))
		return err
	})
	if err != nil {
		return movierepo.Movie{}, err
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, m movierepo.Movie) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("not connected")
	}
	var out movierepo.Movie
	err := catalogmysql.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE movies SET title = ?, release_year = ?, director_id = ? WHERE id = ?",
			m.Title, m.ReleaseYear, int64(m.DirectorID), int64(m.ID)); err != nil {
			return mapWriteError(err)
		}
		// Affected rows cannot tell a missing row from an unchanged one.
		var err error
		out, err = scanOne(tx.QueryRowContext(ctx, selectMovies+" WHERE m.id = ?", int64(m.ID)))
		return err
	})
	if err != nil {
		return movierepo.Movie{}, err
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.MovieID) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("not connected")
	}
	return scanOne(r.db.QueryRowContext(ctx, selectMovies+" WHERE m.id = ?", int64(id)))
}

func (r *Repo) GetByTitle(ctx context.Context, title string) (movierepo.Movie, error) {
	if r.db == nil {
		return movierepo.Movie{}, errors.New("not connected")
	}
	return scanOne(r.db.QueryRowContext(ctx, selectMovies+" WHERE m.title = ?", title))
}

func (r *Repo) List(ctx context.Context) ([]movierepo.Movie, error) {
	if r.db == nil {
		return nil, errors.New("not connected")
	}
	return r.list(ctx, selectMovies+" ORDER BY m.id")
}

func (r *Repo) ListByDirector(ctx context.Context, directorID domain.DirectorID) ([]movierepo.Movie, error) {
	if r.db == nil {
		return nil, errors.New("not connected")
	}
	return r.list(ctx, selectMovies+" WHERE m.director_id = ? ORDER BY m.id", int64(directorID))
}

func (r *Repo) Delete(ctx context.Context, id domain.MovieID) error {
	if r.db == nil {
		return errors.New("not connected")
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", int64(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return movierepo.ErrNotFound
	}
	return nil
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]movierepo.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (movierepo.Movie, error) {
	var (
		id, directorID int64
		m              movierepo.Movie
	)
	if err := row.Scan(&id, &m.Title, &m.ReleaseYear, &directorID, &m.DirectorName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	case catalogmysql.IsDuplicateEntry(err):
		return movierepo.ErrTitleTaken
	case catalogmysql.IsForeignKeyViolation(err):
		return movierepo.ErrDirectorNotFound
	default:
		return err
	}
}
