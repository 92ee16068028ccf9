package movierepo

import (
	"testing"

	"github.com/cinedex/catalog-api/internal/adapters/contracttest"
	mysqldirectorrepo "github.com/cinedex/catalog-api/internal/adapters/mysql/directorrepo"
	"github.com/cinedex/catalog-api/internal/adapters/mysql/testutil"
)

func TestContract_MySQLMovieRepo(t *testing.T) {
	db := testutil.OpenMigratedDB(t)

	contracttest.RunCatalogRepos(t, func(t *testing.T) (contracttest.Repos, func()) {
		t.Helper()
		return contracttest.Repos{Directors: mysqldirectorrepo.NewRepo(db), Movies: NewRepo(db)}, nil
	})
}
