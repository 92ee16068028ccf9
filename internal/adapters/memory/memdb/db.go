package memdb

import (
	"sync"

	"github.com/cinedex/catalog-api/internal/domain"
)

// DirectorRow is a stored director.
type DirectorRow struct {
	ID   domain.DirectorID
	Name string
}

// MovieRow is a stored movie; DirectorID references Directors.
type MovieRow struct {
	ID          domain.MovieID
	Title       string
	ReleaseYear int
	DirectorID  domain.DirectorID
}

// Tables is the mutable state guarded by DB.
type Tables struct {
	Directors map[domain.DirectorID]DirectorRow
	Movies    map[domain.MovieID]MovieRow

	lastDirectorID domain.DirectorID
	lastMovieID    domain.MovieID
}

// NextDirectorID returns the next identity value for the directors table.
func (t *Tables) NextDirectorID() domain.DirectorID {
	t.lastDirectorID++
	return t.lastDirectorID
}

// NextMovieID returns the next identity value for the movies table.
func (t *Tables) NextMovieID() domain.MovieID {
	t.lastMovieID++
	return t.lastMovieID
}

// DB is a tiny in-memory relational store shared by the memory director and movie
// repositories so that the movie→director foreign key and cascade delete hold.
// It is safe for concurrent use.
type DB struct {
	mu sync.RWMutex
	t  Tables
}

func New() *DB {
	return &DB{
		t: Tables{
			Directors: make(map[domain.DirectorID]DirectorRow),
			Movies:    make(map[domain.MovieID]MovieRow),
		},
	}
}

// Update runs fn with exclusive access. Changes made by fn are kept even if it returns an error,
// so fn must validate before mutating.
func (db *DB) Update(fn func(t *Tables) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(&db.t)
}

// View runs fn with shared access; fn must not mutate t.
func (db *DB) View(fn func(t *Tables) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(&db.t)
}
