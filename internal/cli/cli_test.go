package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformclock "github.com/cinedex/catalog-api/internal/platform/clock"
	"github.com/cinedex/catalog-api/internal/platform/config"
	"github.com/cinedex/catalog-api/internal/platform/metrics"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewApp(&out, &errOut).CreateRootCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "catalog-api dev\n", out)
}

func TestSeed_MemoryBackend(t *testing.T) {
	t.Setenv("CATALOG_STORAGE_BACKEND", "memory")
	cfg := writeFile(t, "catalog.yaml", "log:\n  level: debug\n")
	seed := writeFile(t, "seed.yaml", `
directors:
  - name: Agnes Varda
movies:
  - title: Vagabond
    releaseYear: 1985
    director: Agnes Varda
  - title: Vagabond
    releaseYear: 1985
    director: Agnes Varda
`)

	out, err := run(t, "--config", cfg, "seed", "--file", seed)
	require.NoError(t, err)
	assert.Contains(t, out, "directors: 1 created, 0 existing")
	assert.Contains(t, out, "movies: 1 created, 1 skipped")
}

func TestSeed_RequiresFile(t *testing.T) {
	_, err := run(t, "seed")
	require.Error(t, err)
}

func TestMigrate_RejectsMemoryBackend(t *testing.T) {
	t.Setenv("CATALOG_STORAGE_BACKEND", "memory")
	_, err := run(t, "migrate")
	require.ErrorIs(t, err, errNoSchema)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Setenv("CATALOG_STORAGE_BACKEND", "postgres")
	t.Setenv("CATALOG_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.database_url")
}

func TestOpenBackend_MemoryIsInstrumented(t *testing.T) {
	t.Setenv("CATALOG_STORAGE_BACKEND", "memory")
	ctx := context.Background()
	cfg, err := config.Load("")
	require.NoError(t, err)

	b, err := openBackend(ctx, cfg, platformclock.NewSystemClock())
	require.NoError(t, err)
	defer b.close()
	require.NoError(t, b.prepare(ctx, cfg))

	m := metrics.New()
	b.instrument(m)
	_, err = b.directors.List(ctx)
	require.NoError(t, err)
}
