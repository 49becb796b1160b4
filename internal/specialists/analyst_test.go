package specialists

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/telemetry"
)

func analystWithBackend(t *testing.T, response string) (*Analyst, *telemetry.Recorder) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	rec := telemetry.NewRecorder(nil)
	client := llm.NewClient(llm.Config{
		URL:        srv.URL,
		Model:      "llama3:latest",
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
	}, rec, nil)
	return NewAnalyst(client, rec, nil), rec
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
		count  int
	}{
		{"valid array", `[{"claim":"a","confidence":0.8,"citations":[1],"rationale":"r"}]`, true, 1},
		{"leading whitespace", "  [ ]", true, 0},
		{"prose response", "I think Raft is simpler.", false, 0},
		{"broken json", `[{"claim": }`, false, 0},
		{"object not array", `{"claim":"a"}`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCards(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Len(t, got, tt.count)
		})
	}
}

func TestAnalyzeParsesCards(t *testing.T) {
	body := `{"response": "[{\"claim\":\"PBFT tolerates malicious nodes\",\"confidence\":1.7,\"citations\":[1,2],\"rationale\":\"quorum math\"},{\"claim\":\"extra\",\"confidence\":0.6,\"citations\":[2],\"rationale\":\"r\"},{\"claim\":\"dropped third\",\"confidence\":0.9,\"citations\":[3],\"rationale\":\"r\"}]"}`
	a, _ := analystWithBackend(t, body)
	role, _ := RoleByName("Prof. Security")

	cards := a.Analyze(context.Background(), role, "byzantine faults?", []string{"KB: pbft"})

	// Capped at two cards, confidence clamped at creation.
	require.Len(t, cards, 2)
	assert.Equal(t, "PBFT tolerates malicious nodes", cards[0].Claim)
	assert.Equal(t, 1.0, cards[0].Confidence)
	assert.Equal(t, []int{1, 2}, cards[0].Citations)
	assert.Equal(t, "Prof. Security", cards[0].Role)
}

func TestAnalyzeDefaultsMissingFields(t *testing.T) {
	body := `{"response": "[{}]"}`
	a, _ := analystWithBackend(t, body)
	role, _ := RoleByName("Prof. Finance")

	cards := a.Analyze(context.Background(), role, "costs?", nil)

	require.Len(t, cards, 1)
	assert.Equal(t, "Financial Systems analysis needed", cards[0].Claim)
	assert.Equal(t, 0.5, cards[0].Confidence)
	assert.Equal(t, []int{1}, cards[0].Citations)
	assert.Equal(t, "Based on evidence", cards[0].Rationale)
}

func TestAnalyzeUnparseableYieldsPlaceholder(t *testing.T) {
	body := `{"response": "Raft, being simpler, wins here."}`
	a, _ := analystWithBackend(t, body)
	role, _ := RoleByName("Prof. Algorithms")

	cards := a.Analyze(context.Background(), role, "raft?", []string{"KB: raft"})

	require.Len(t, cards, 1)
	assert.Equal(t, "Consensus Algorithms considerations required", cards[0].Claim)
	assert.Equal(t, 0.5, cards[0].Confidence)
	assert.Equal(t, "Fallback guidance", cards[0].Rationale)
}

func TestAnalyzeWithoutBackendNeverFails(t *testing.T) {
	rec := telemetry.NewRecorder(nil)
	client := llm.NewClient(llm.Config{}, rec, nil)
	a := NewAnalyst(client, rec, nil)
	role, _ := RoleByName("Prof. Systems")

	cards := a.Analyze(context.Background(), role, "throughput?", []string{"KB: systems"})

	// Mock backend output is prose, so the placeholder path applies.
	require.Len(t, cards, 1)
	assert.Equal(t, "Performance & Systems considerations required", cards[0].Claim)
}
