package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRepository(t *testing.T) {
	t.Parallel()
	m := New()

	m.ObserveRepository("memory", "movies.create", StatusSuccess)
	m.ObserveRepository("memory", "movies.create", StatusSuccess)
	m.ObserveRepository("memory", "movies.create", StatusFailure)
	m.ObserveRepository("memory", "movies.get_by_id", StatusNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RepositoryOperationsTotal.WithLabelValues("memory", "movies.create", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepositoryOperationsTotal.WithLabelValues("memory", "movies.create", StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepositoryOperationsTotal.WithLabelValues("memory", "movies.get_by_id", StatusNotFound)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RepositoryOperationsTotal.WithLabelValues("memory", "movies.get_by_id", StatusFailure)))
}

func TestHandler_ExposesHTTPMetrics(t *testing.T) {
	t.Parallel()
	m := New()
	m.ObserveHTTP("GET", "/movies/{id}", 404, 3*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `catalog_http_requests_total{method="GET",route="/movies/{id}",status="404"} 1`), text)
	assert.Contains(t, text, "catalog_http_request_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}
