package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cinedex/catalog-api/internal/domain"
	directorrepoport "github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	idempotencyport "github.com/cinedex/catalog-api/internal/ports/out/idempotency"
	movierepoport "github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

type CleanupFunc = func()

// Repos pairs the two catalog repositories of one backend. They must share
// storage so the movie->director foreign key and the cascade delete hold.
type Repos struct {
	Directors directorrepoport.Repository
	Movies    movierepoport.Repository
}

type CatalogFactory func(t *testing.T) (Repos, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

// unique returns a name that does not collide with rows left behind by other
// runs against a shared database.
func unique(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Method:   "POST",
		Route:    "/movies",
		BodyHash: "",
	}
	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// A different body hash is a different fingerprint.
	other := fp
	other.BodyHash = "deadbeef"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected miss for other fingerprint, got ok=%v err=%v", ok, err)
	}
}

// RunCatalogRepos exercises the director and movie repositories together.
func RunCatalogRepos(t *testing.T, newRepos CatalogFactory) {
	t.Helper()

	t.Run("directors", func(t *testing.T) {
		repos, cleanup := newRepos(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}
		runDirectorRepo(t, repos)
	})
	t.Run("movies", func(t *testing.T) {
		repos, cleanup := newRepos(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}
		runMovieRepo(t, repos)
	})
	t.Run("cascade", func(t *testing.T) {
		repos, cleanup := newRepos(t)
		if cleanup != nil {
			t.Cleanup(cleanup)
		}
		runCascadeDelete(t, repos)
	})
}

func runDirectorRepo(t *testing.T, repos Repos) {
	t.Helper()
	ctx := context.Background()
	repo := repos.Directors

	nameA := unique("Agnes Varda")
	a, created, err := repo.FindOrCreate(ctx, nameA)
	if err != nil || !created {
		t.Fatalf("FindOrCreate a: created=%v err=%v", created, err)
	}
	if a.ID <= 0 || a.Name != nameA {
		t.Fatalf("unexpected created director: %+v", a)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil || got != a {
		t.Fatalf("GetByID() got=%+v err=%v", got, err)
	}
	got, err = repo.GetByName(ctx, nameA)
	if err != nil || got != a {
		t.Fatalf("GetByName() got=%+v err=%v", got, err)
	}
	if _, err := repo.GetByID(ctx, domain.DirectorID(1<<30)); !errors.Is(err, directorrepoport.ErrNotFound) {
		t.Fatalf("GetByID(unknown) err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetByName(ctx, unique("Nobody")); !errors.Is(err, directorrepoport.ErrNotFound) {
		t.Fatalf("GetByName(unknown) err=%v, want ErrNotFound", err)
	}

	// Find-or-create returns the existing row for a known name.
	same, created, err := repo.FindOrCreate(ctx, nameA)
	if err != nil || created || same.ID != a.ID {
		t.Fatalf("FindOrCreate(existing) got=%+v created=%v err=%v", same, created, err)
	}
	nameB := unique("Bong Joon-ho")
	b, created, err := repo.FindOrCreate(ctx, nameB)
	if err != nil || !created || b.ID <= a.ID {
		t.Fatalf("FindOrCreate(new) got=%+v created=%v err=%v", b, created, err)
	}

	// Update: rename, collide, unknown id.
	renamed := unique("Agnes V")
	if err := repo.Update(ctx, directorrepoport.Director{ID: a.ID, Name: renamed}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := repo.GetByID(ctx, a.ID); got.Name != renamed {
		t.Fatalf("expected renamed director, got %+v", got)
	}
	if err := repo.Update(ctx, directorrepoport.Director{ID: a.ID, Name: nameB}); !errors.Is(err, directorrepoport.ErrNameTaken) {
		t.Fatalf("Update collide err=%v, want ErrNameTaken", err)
	}
	if err := repo.Update(ctx, directorrepoport.Director{ID: a.ID, Name: renamed}); err != nil {
		t.Fatalf("Update to own name: %v", err)
	}
	if err := repo.Update(ctx, directorrepoport.Director{ID: domain.DirectorID(1 << 30), Name: unique("X")}); !errors.Is(err, directorrepoport.ErrNotFound) {
		t.Fatalf("Update unknown err=%v, want ErrNotFound", err)
	}

	// Deterministic list ordering by id.
	ds, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	idxA, idxB := -1, -1
	for i, d := range ds {
		if i > 0 && ds[i-1].ID >= d.ID {
			t.Fatalf("list not ordered by id: %#v", ds)
		}
		switch d.ID {
		case a.ID:
			idxA = i
		case b.ID:
			idxB = i
		}
	}
	if idxA < 0 || idxB < 0 || idxA > idxB {
		t.Fatalf("expected both directors in id order, got idxA=%d idxB=%d", idxA, idxB)
	}

	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, b.ID); !errors.Is(err, directorrepoport.ErrNotFound) {
		t.Fatalf("Delete again err=%v, want ErrNotFound", err)
	}
}

func runMovieRepo(t *testing.T, repos Repos) {
	t.Helper()
	ctx := context.Background()

	d1, _, err := repos.Directors.FindOrCreate(ctx, unique("Akira Kurosawa"))
	if err != nil {
		t.Fatalf("FindOrCreate director: %v", err)
	}
	d2, _, err := repos.Directors.FindOrCreate(ctx, unique("Yasujiro Ozu"))
	if err != nil {
		t.Fatalf("FindOrCreate director: %v", err)
	}
	repo := repos.Movies

	title := unique("Ran")
	m, err := repo.Create(ctx, movierepoport.Movie{Title: title, ReleaseYear: 1985, DirectorID: d1.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID <= 0 || m.Title != title || m.ReleaseYear != 1985 || m.DirectorID != d1.ID || m.DirectorName != d1.Name {
		t.Fatalf("unexpected created movie: %+v", m)
	}

	if _, err := repo.Create(ctx, movierepoport.Movie{Title: title, ReleaseYear: 1990, DirectorID: d2.ID}); !errors.Is(err, movierepoport.ErrTitleTaken) {
		t.Fatalf("Create duplicate title err=%v, want ErrTitleTaken", err)
	}
	if _, err := repo.Create(ctx, movierepoport.Movie{Title: unique("Orphan"), ReleaseYear: 1990, DirectorID: domain.DirectorID(1 << 30)}); !errors.Is(err, movierepoport.ErrDirectorNotFound) {
		t.Fatalf("Create unknown director err=%v, want ErrDirectorNotFound", err)
	}

	got, err := repo.GetByID(ctx, m.ID)
	if err != nil || got != m {
		t.Fatalf("GetByID() got=%+v err=%v", got, err)
	}
	got, err = repo.GetByTitle(ctx, title)
	if err != nil || got.ID != m.ID {
		t.Fatalf("GetByTitle() got=%+v err=%v", got, err)
	}
	if _, err := repo.GetByID(ctx, domain.MovieID(1<<30)); !errors.Is(err, movierepoport.ErrNotFound) {
		t.Fatalf("GetByID(unknown) err=%v, want ErrNotFound", err)
	}

	// Update replaces title, year and director, and re-joins the director name.
	m.Title = unique("Tokyo Story")
	m.ReleaseYear = 1953
	m.DirectorID = d2.ID
	updated, err := repo.Update(ctx, m)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.DirectorName != d2.Name || updated.ReleaseYear != 1953 || updated.Title != m.Title {
		t.Fatalf("unexpected updated movie: %+v", updated)
	}
	if _, err := repo.Update(ctx, movierepoport.Movie{ID: domain.MovieID(1 << 30), Title: unique("X"), ReleaseYear: 2000, DirectorID: d1.ID}); !errors.Is(err, movierepoport.ErrNotFound) {
		t.Fatalf("Update unknown err=%v, want ErrNotFound", err)
	}

	other, err := repo.Create(ctx, movierepoport.Movie{Title: unique("Ikiru"), ReleaseYear: 1952, DirectorID: d1.ID})
	if err != nil {
		t.Fatalf("Create other: %v", err)
	}
	other.Title = updated.Title
	if _, err := repo.Update(ctx, other); !errors.Is(err, movierepoport.ErrTitleTaken) {
		t.Fatalf("Update collide err=%v, want ErrTitleTaken", err)
	}

	byD1, err := repo.ListByDirector(ctx, d1.ID)
	if err != nil {
		t.Fatalf("ListByDirector: %v", err)
	}
	if len(byD1) != 1 || byD1[0].ID != other.ID {
		t.Fatalf("unexpected movies for director: %#v", byD1)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("list not ordered by id: %#v", all)
		}
	}

	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, m.ID); !errors.Is(err, movierepoport.ErrNotFound) {
		t.Fatalf("Delete again err=%v, want ErrNotFound", err)
	}
}

func runCascadeDelete(t *testing.T, repos Repos) {
	t.Helper()
	ctx := context.Background()

	d, _, err := repos.Directors.FindOrCreate(ctx, unique("Jean-Luc Godard"))
	if err != nil {
		t.Fatalf("FindOrCreate director: %v", err)
	}
	keep, _, err := repos.Directors.FindOrCreate(ctx, unique("Francois Truffaut"))
	if err != nil {
		t.Fatalf("FindOrCreate director: %v", err)
	}
	gone, err := repos.Movies.Create(ctx, movierepoport.Movie{Title: unique("Breathless"), ReleaseYear: 1960, DirectorID: d.ID})
	if err != nil {
		t.Fatalf("Create movie: %v", err)
	}
	kept, err := repos.Movies.Create(ctx, movierepoport.Movie{Title: unique("The 400 Blows"), ReleaseYear: 1959, DirectorID: keep.ID})
	if err != nil {
		t.Fatalf("Create movie: %v", err)
	}

	if err := repos.Directors.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete director: %v", err)
	}
	if _, err := repos.Movies.GetByID(ctx, gone.ID); !errors.Is(err, movierepoport.ErrNotFound) {
		t.Fatalf("expected cascaded movie to be gone, err=%v", err)
	}
	if _, err := repos.Movies.GetByID(ctx, kept.ID); err != nil {
		t.Fatalf("expected other director's movie to survive, err=%v", err)
	}
}
