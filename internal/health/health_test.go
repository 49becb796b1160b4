package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisworks/advisor/internal/knowledge"
)

func TestCorpusChecker(t *testing.T) {
	source := knowledge.NewSource(nil)
	c := NewCorpusChecker(source)

	result := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Contains(t, result.Message, "entries")
}

func TestBackendCheckerNoBackend(t *testing.T) {
	c := NewBackendChecker("")
	result := c.Check(context.Background())
	assert.Equal(t, StatusDegraded, result.Status)
}

func TestBackendCheckerReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewBackendChecker(srv.URL + "/api/generate")
	result := c.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
}

func TestManagerAggregation(t *testing.T) {
	m := NewManager(nil)
	m.Register(NewCorpusChecker(knowledge.NewSource(nil)))
	m.Register(NewBackendChecker(""))

	results, overall := m.Check(context.Background())
	require.Len(t, results, 2)
	// Non-critical degraded backend yields overall degraded, still ready.
	assert.Equal(t, StatusDegraded, overall)
	assert.True(t, m.Ready(context.Background()))
}

func TestHealthEndpoint(t *testing.T) {
	m := NewManager(nil)
	m.Register(NewCorpusChecker(knowledge.NewSource(nil)))

	mux := http.NewServeMux()
	NewHTTPHandler(m, nil).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"healthy"`)
}
