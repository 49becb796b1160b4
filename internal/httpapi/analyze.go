package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/knowledge"
	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/orchestrator"
	"github.com/praxisworks/advisor/internal/telemetry"
)

// AnalyzeHandler exposes the advisory pipeline over HTTP. Each request gets
// its own recorder and orchestrator, so concurrent runs never share mutable
// run state.
type AnalyzeHandler struct {
	backend llm.Config
	source  *knowledge.Source
	logger  *zap.Logger
}

// NewAnalyzeHandler builds the handler around a shared knowledge source.
func NewAnalyzeHandler(backend llm.Config, source *knowledge.Source, logger *zap.Logger) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{backend: backend, source: source, logger: logger}
}

// RegisterRoutes registers API routes on the provided mux.
func (h *AnalyzeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/analyze", h.handleAnalyze)
}

type analyzeRequest struct {
	Question string `json:"question"`
}

// handleAnalyze runs one question through the pipeline.
// POST /api/analyze {"question": "..."}
func (h *AnalyzeHandler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question required")
		return
	}

	rec := telemetry.NewRecorder(h.logger)
	client := llm.NewClient(h.backend, rec, h.logger)
	orch := orchestrator.New(h.source, client, rec, h.logger)

	report := orch.Run(r.Context(), question)
	h.logger.Info("Analyze request served",
		zap.String("run_id", report.RunID),
		zap.Int64("errors", rec.ErrorCount()))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		h.logger.Error("Failed to encode analyze response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
