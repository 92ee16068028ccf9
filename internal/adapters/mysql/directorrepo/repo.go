package directorrepo

import (
	"context"
	"database/sql"
	"errors"

	catalogmysql "github.com/cinedex/catalog-api/internal/adapters/mysql"
	"github.com/cinedex/catalog-api/internal/domain"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
)

// Repo is a MySQL implementation of directorrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// FindOrCreate uses LAST_INSERT_ID(id) so a duplicate name reports the
// existing row's id with zero affected rows.
func (r *Repo) FindOrCreate(ctx context.Context, name string) (directorrepo.Director, bool, error) {
	if r.db == nil {
		return directorrepo.Director{}, false, errors.New("not connected")
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO directors (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)", name)
	if err != nil {
		return directorrepo.Director{}, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return directorrepo.Director{}, false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return directorrepo.Director{}, false, err
	}
	return directorrepo.Director{ID: domain.DirectorID(id), Name: name}, affected == 1, nil
}

func (r *Repo) Update(ctx context.Context, d directorrepo.Director) error {
	if r.db == nil {
		return errors.New("not connected")
	}
	return catalogmysql.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE directors SET name = ? WHERE id = ?", d.Name, int64(d.ID))
		if err != nil {
			if catalogmysql.IsDuplicateEntry(err) {
				return directorrepo.ErrNameTaken
			}
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		// Zero rows also means the name was unchanged.
		_, err = scanOne(tx.QueryRowContext(ctx, "SELECT id, name FROM directors WHERE id = ?", int64(d.ID)))
		return err
	})
}

func (r *Repo) GetByID(ctx context.Context, id domain.DirectorID) (directorrepo.Director, error) {
	if r.db == nil {
		return directorrepo.Director{}, errors.New("not connected")
	}
	return scanOne(r.db.QueryRowContext(ctx, "SELECT id, name FROM directors WHERE id = ?", int64(id)))
}

func (r *Repo) GetByName(ctx context.Context, name string) (directorrepo.Director, error) {
	if r.db == nil {
		return directorrepo.Director{}, errors.New("not connected")
	}
	return scanOne(r.db.QueryRowContext(ctx, "SELECT id, name FROM directors WHERE name = ?", name))
}

func (r *Repo) List(ctx context.Context) ([]directorrepo.Director, error) {
	if r.db == nil {
		return nil, errors.New("not connected")
	}
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM directors ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directorrepo.Director, 0)
	for rows.Next() {
		d, err := scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.DirectorID) error {
	if r.db == nil {
		return errors.New("not connected")
	}
	return catalogmysql.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE director_id = ?", int64(id)); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM directors WHERE id = ?", int64(id))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return directorrepo.ErrNotFound
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (directorrepo.Director, error) {
	var (
		id   int64
		name string
	)
	if err := row.Scan(&id, &name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return directorrepo.Director{}, directorrepo.ErrNotFound
		}
		return directorrepo.Director{}, err
	}
	return directorrepo.Director{ID: domain.DirectorID(id), Name: name}, nil
}
