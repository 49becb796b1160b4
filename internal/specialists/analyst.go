package specialists

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/evidence"
	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/telemetry"
	"github.com/praxisworks/advisor/internal/util"
)

const (
	maxCardsPerAnalysis = 2
	maxPromptSnippets   = 3
	snippetPreviewLen   = 100
)

// Analyst runs the analyze operation for specialist roles against the
// generative backend.
type Analyst struct {
	client *llm.Client
	rec    *telemetry.Recorder
	logger *zap.Logger
}

// NewAnalyst builds an Analyst bound to a per-run recorder.
func NewAnalyst(client *llm.Client, rec *telemetry.Recorder, logger *zap.Logger) *Analyst {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyst{client: client, rec: rec, logger: logger}
}

// cardPayload mirrors the JSON shape the backend is asked to emit. A nil
// Confidence distinguishes "absent" from an explicit zero.
type cardPayload struct {
	Claim      string   `json:"claim"`
	Confidence *float64 `json:"confidence"`
	Citations  []int    `json:"citations"`
	Rationale  string   `json:"rationale"`
}

// ParseCards interprets backend output as a JSON card array. The result is
// either parsed payloads or nothing: malformed input reports ok=false and
// never an error.
func ParseCards(raw string) ([]cardPayload, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var payloads []cardPayload
	if err := json.Unmarshal([]byte(trimmed), &payloads); err != nil {
		return nil, false
	}
	return payloads, true
}

// Analyze asks the backend for two evidence cards from the role's viewpoint
// on a sub-question. Missing fields default, unparseable output yields a
// single placeholder card, and any internal failure degrades to an error
// placeholder. Analyze never fails.
func (a *Analyst) Analyze(ctx context.Context, role Role, question string, snippets []string) (cards []evidence.Card) {
	defer func() {
		if r := recover(); r != nil {
			a.rec.LogError(fmt.Errorf("panic: %v", r), "analyze "+role.Name)
			cards = []evidence.Card{evidence.NewCard(
				fmt.Sprintf("%s analysis needed", role.Specialty),
				0.3,
				[]int{1},
				"Error fallback",
				role.Name,
			)}
		}
	}()

	prompt := a.buildPrompt(role, question, snippets)
	raw := a.client.Invoke(ctx, role.Name, prompt, 0.2, llm.DefaultMaxRetries)

	payloads, ok := ParseCards(raw)
	if !ok {
		a.logger.Debug("Analysis output not parseable as cards",
			zap.String("role", role.Name))
	}
	if len(payloads) > maxCardsPerAnalysis {
		payloads = payloads[:maxCardsPerAnalysis]
	}

	for _, p := range payloads {
		cards = append(cards, cardFromPayload(role, p))
	}
	if len(cards) == 0 {
		cards = []evidence.Card{evidence.NewCard(
			fmt.Sprintf("%s considerations required", role.Specialty),
			0.5,
			[]int{1},
			"Fallback guidance",
			role.Name,
		)}
	}
	return cards
}

func cardFromPayload(role Role, p cardPayload) evidence.Card {
	claim := p.Claim
	if claim == "" {
		claim = fmt.Sprintf("%s analysis needed", role.Specialty)
	}
	confidence := 0.5
	if p.Confidence != nil {
		confidence = *p.Confidence
	}
	citations := p.Citations
	if len(citations) == 0 {
		citations = []int{1}
	}
	rationale := p.Rationale
	if rationale == "" {
		rationale = "Based on evidence"
	}
	return evidence.NewCard(claim, confidence, citations, rationale, role.Name)
}

func (a *Analyst) buildPrompt(role Role, question string, snippets []string) string {
	if len(snippets) > maxPromptSnippets {
		snippets = snippets[:maxPromptSnippets]
	}
	var context strings.Builder
	for i, s := range snippets {
		fmt.Fprintf(&context, "[%d] %s\n", i+1, util.Truncate(s, snippetPreviewLen, false))
	}

	return fmt.Sprintf(`Question: %s
Context: %s
As %s specializing in %s, provide 2 evidence cards as JSON:
[{"claim": "insight 1", "confidence": 0.8, "citations": [1], "rationale": "brief reason"},
 {"claim": "insight 2", "confidence": 0.7, "citations": [1,2], "rationale": "brief reason"}]`,
		question, context.String(), role.Name, role.Specialty)
}
