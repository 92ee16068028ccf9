package directors

import (
	"context"
	"errors"
	"testing"

	memdirectorrepo "github.com/cinedex/catalog-api/internal/adapters/memory/directorrepo"
	"github.com/cinedex/catalog-api/internal/adapters/memory/memdb"
	memmovierepo "github.com/cinedex/catalog-api/internal/adapters/memory/movierepo"
	"github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	"github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

func newService() (*Service, *memmovierepo.Repo) {
	db := memdb.New()
	movies := memmovierepo.NewRepo(db)
	return NewService(memdirectorrepo.NewRepo(db), movies), movies
}

func ptr[T any](v T) *T { return &v }

func requireCode(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != status || ae.Code != code {
		t.Fatalf("err=%v (type=%T), want %s %d", err, err, code, status)
	}
}

func TestService_CreateDirector_FindOrCreate(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()

	d, created, err := svc.CreateDirector(ctx, CreateDirectorInput{Name: ptr("  Claire   Denis ")})
	if err != nil {
		t.Fatalf("CreateDirector err=%v", err)
	}
	if !created || d.Name != "Claire Denis" || d.ID == 0 {
		t.Fatalf("created=%v d=%+v", created, d)
	}
	if d.Movies == nil || len(d.Movies) != 0 {
		t.Fatalf("movies=%v, want empty non-nil", d.Movies)
	}

	again, created, err := svc.CreateDirector(ctx, CreateDirectorInput{Name: ptr("Claire Denis")})
	if err != nil {
		t.Fatalf("CreateDirector err=%v", err)
	}
	if created || again.ID != d.ID {
		t.Fatalf("created=%v id=%d want existing %d", created, again.ID, d.ID)
	}
}

func TestService_CreateDirector_RequiresName(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, _, err := svc.CreateDirector(context.Background(), CreateDirectorInput{})
	requireCode(t, err, 400, "VALIDATION_ERROR")

	_, _, err = svc.CreateDirector(context.Background(), CreateDirectorInput{Name: ptr("   ")})
	requireCode(t, err, 400, "VALIDATION_ERROR")
}

func TestService_UpdateDirector(t *testing.T) {
	t.Parallel()
	svc, _ := newService()
	ctx := context.Background()

	a, _, _ := svc.CreateDirector(ctx, CreateDirectorInput{Name: ptr("Lucrecia Martel")})
	b, _, _ := svc.CreateDirector(ctx, CreateDirectorInput{Name: ptr("Kelly Reichardt")})

	_, err := svc.UpdateDirector(ctx, UpdateDirectorInput{Name: ptr("X")})
	requireCode(t, err, 400, "VALIDATION_ERROR")

	_, err = svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID))})
	requireCode(t, err, 400, "VALIDATION_ERROR")

	_, err = svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(999), Name: ptr("X")})
	requireCode(t, err, 404, "DIRECTOR_NOT_FOUND")

	_, err = svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID)), Name: ptr(b.Name)})
	requireCode(t, err, 409, "DIRECTOR_NAME_TAKEN")

	got, err := svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID)), Name: ptr(" L. Martel ")})
	if err != nil {
		t.Fatalf("UpdateDirector err=%v", err)
	}
	if got.Name != "L. Martel" {
		t.Fatalf("name=%q", got.Name)
	}

	// Renaming to the current name is not a conflict.
	if _, err := svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID)), Name: ptr("L. Martel")}); err != nil {
		t.Fatalf("UpdateDirector same name err=%v", err)
	}
}

// unconstrainedDirectors accepts any rename, as a store without a unique
// name index would.
type unconstrainedDirectors struct {
	directorrepo.Repository
	updates int
}

func (r *unconstrainedDirectors) Update(context.Context, directorrepo.Director) error {
	r.updates++
	return nil
}

func TestService_UpdateDirector_ChecksNameBeforeWriting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := memdb.New()
	mem := memdirectorrepo.NewRepo(db)
	a, _, _ := mem.FindOrCreate(ctx, "Agnes Varda")
	b, _, _ := mem.FindOrCreate(ctx, "Jacques Demy")

	repo := &unconstrainedDirectors{Repository: mem}
	svc := NewService(repo, memmovierepo.NewRepo(db))

	_, err := svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID)), Name: ptr(b.Name)})
	requireCode(t, err, 409, "DIRECTOR_NAME_TAKEN")
	if repo.updates != 0 {
		t.Fatalf("updates=%d, want no write after a name conflict", repo.updates)
	}

	if _, err := svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID)), Name: ptr(a.Name)}); err != nil {
		t.Fatalf("UpdateDirector own name err=%v", err)
	}
	if _, err := svc.UpdateDirector(ctx, UpdateDirectorInput{ID: ptr(int(a.ID)), Name: ptr("Agnes V.")}); err != nil {
		t.Fatalf("UpdateDirector new name err=%v", err)
	}
	if repo.updates != 2 {
		t.Fatalf("updates=%d, want 2", repo.updates)
	}
}

func TestService_ListAndDelete_CascadesMovies(t *testing.T) {
	t.Parallel()
	svc, movies := newService()
	ctx := context.Background()

	a, _, _ := svc.CreateDirector(ctx, CreateDirectorInput{Name: ptr("A")})
	b, _, _ := svc.CreateDirector(ctx, CreateDirectorInput{Name: ptr("B")})
	for _, m := range []movierepo.Movie{
		{Title: "A1", ReleaseYear: 2001, DirectorID: a.ID},
		{Title: "B1", ReleaseYear: 2002, DirectorID: b.ID},
		{Title: "A2", ReleaseYear: 2003, DirectorID: a.ID},
	} {
		if _, err := movies.Create(ctx, m); err != nil {
			t.Fatalf("create movie: %v", err)
		}
	}

	list, err := svc.ListDirectors(ctx)
	if err != nil {
		t.Fatalf("ListDirectors err=%v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || len(list[0].Movies) != 2 || len(list[1].Movies) != 1 {
		t.Fatalf("list=%+v", list)
	}
	if list[0].Movies[0].Title != "A1" || list[0].Movies[1].Title != "A2" {
		t.Fatalf("movies out of order: %+v", list[0].Movies)
	}

	if err := svc.DeleteDirector(ctx, a.ID); err != nil {
		t.Fatalf("DeleteDirector err=%v", err)
	}
	requireCode(t, svc.DeleteDirector(ctx, a.ID), 404, "DIRECTOR_NOT_FOUND")
	_, err = svc.GetDirector(ctx, a.ID)
	requireCode(t, err, 404, "DIRECTOR_NOT_FOUND")

	remaining, err := movies.List(ctx)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(remaining) != 1 || remaining[0].DirectorID != b.ID {
		t.Fatalf("remaining=%+v", remaining)
	}
}
