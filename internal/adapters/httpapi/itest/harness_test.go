package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cinedex/catalog-api/internal/adapters/httpapi"
	memclock "github.com/cinedex/catalog-api/internal/adapters/memory/clock"
	memdirectorrepo "github.com/cinedex/catalog-api/internal/adapters/memory/directorrepo"
	memidempotency "github.com/cinedex/catalog-api/internal/adapters/memory/idempotency"
	"github.com/cinedex/catalog-api/internal/adapters/memory/memdb"
	memmovierepo "github.com/cinedex/catalog-api/internal/adapters/memory/movierepo"
	mydirectorrepo "github.com/cinedex/catalog-api/internal/adapters/mysql/directorrepo"
	myidempotency "github.com/cinedex/catalog-api/internal/adapters/mysql/idempotency"
	mymovierepo "github.com/cinedex/catalog-api/internal/adapters/mysql/movierepo"
	mysql_testutil "github.com/cinedex/catalog-api/internal/adapters/mysql/testutil"
	pgdirectorrepo "github.com/cinedex/catalog-api/internal/adapters/postgres/directorrepo"
	pgidempotency "github.com/cinedex/catalog-api/internal/adapters/postgres/idempotency"
	pgmovierepo "github.com/cinedex/catalog-api/internal/adapters/postgres/movierepo"
	postgres_testutil "github.com/cinedex/catalog-api/internal/adapters/postgres/testutil"
	"github.com/cinedex/catalog-api/internal/app/directors"
	"github.com/cinedex/catalog-api/internal/app/movies"
	directorrepoport "github.com/cinedex/catalog-api/internal/ports/out/directorrepo"
	idempotencyport "github.com/cinedex/catalog-api/internal/ports/out/idempotency"
	movierepoport "github.com/cinedex/catalog-api/internal/ports/out/movierepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendMySQL    backend = "mysql"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "mysql":
		return []backend{backendMySQL}
	case "all":
		return []backend{backendMemory, backendPostgres, backendMySQL}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|mysql|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		directorRepo directorrepoport.Repository
		movieRepo    movierepoport.Repository
		idemStore    idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		directorRepo = pgdirectorrepo.NewRepo(pool)
		movieRepo = pgmovierepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMySQL:
		db := mysql_testutil.OpenMigratedDB(t)
		directorRepo = mydirectorrepo.NewRepo(db)
		movieRepo = mymovierepo.NewRepo(db)
		idemStore = myidempotency.NewStore(db)
	case backendMemory:
		db := memdb.New()
		directorRepo = memdirectorrepo.NewRepo(db)
		movieRepo = memmovierepo.NewRepo(db)
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	api := httpapi.NewServer(
		directors.NewService(directorRepo, movieRepo),
		movies.NewService(movieRepo, directorRepo),
		idemStore,
		clk,
	)
	srv := httptest.NewServer(httpapi.NewRouter(api))
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, body any, headers ...string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

type movieJSON struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	ReleaseYear  int    `json:"releaseYear"`
	DirectorID   int    `json:"directorId"`
	DirectorName string `json:"directorName"`
}

type directorJSON struct {
	ID     int         `json:"id"`
	Name   string      `json:"name"`
	Movies []movieJSON `json:"movies"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	if got.Error.RequestID == "" {
		t.Fatalf("expected error.requestId, body=%s", string(body))
	}
}

// unique suffixes fixture names so runs against a shared database do not collide.
func unique(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}
