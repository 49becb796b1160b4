package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisworks/advisor/internal/knowledge"
	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/orchestrator"
	"github.com/praxisworks/advisor/internal/synthesis"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	// Empty backend URL: the pipeline serves deterministic mock output.
	h := NewAnalyzeHandler(llm.Config{}, knowledge.NewSource(nil), nil)
	h.RegisterRoutes(mux)
	return mux
}

func TestAnalyzeSuccess(t *testing.T) {
	mux := newTestMux(t)

	body := `{"question": "Compare Raft vs PBFT for financial trading"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var report orchestrator.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.NotEmpty(t, report.RunID)
	assert.NoError(t, synthesis.Validate(report.Answer))
	assert.Contains(t, report.Summary, "Tools: map[")
	assert.NotEmpty(t, report.Events)
}

func TestAnalyzeEmptyQuestion(t *testing.T) {
	mux := newTestMux(t)

	for _, body := range []string{`{}`, `{"question": "   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "body %s", body)
		assert.Contains(t, rr.Body.String(), "question required")
	}
}

func TestAnalyzeBadJSON(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{nope"))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
