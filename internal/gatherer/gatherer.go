package gatherer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/knowledge"
	"github.com/praxisworks/advisor/internal/metrics"
	"github.com/praxisworks/advisor/internal/telemetry"
	"github.com/praxisworks/advisor/internal/util"
)

const maxPerSubQuestion = 3

// Gatherer collects tagged snippets and their citation locators for one
// sub-question at a time: local corpus hits first, then the first external
// result. Results are memoized per run so a repeated sub-question counts as
// a cache hit instead of a fresh lookup.
type Gatherer struct {
	source *knowledge.Source
	rec    *telemetry.Recorder
	logger *zap.Logger
	memo   map[string]gathered
}

type gathered struct {
	snippets  []string
	citations []string
}

// New builds a Gatherer bound to a per-run recorder.
func New(source *knowledge.Source, rec *telemetry.Recorder, logger *zap.Logger) *Gatherer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gatherer{
		source: source,
		rec:    rec,
		logger: logger,
		memo:   make(map[string]gathered),
	}
}

// Gather returns up to three snippets and citations for a sub-question.
// Local results precede the external one, and the tool counters record one
// "vector" call per corpus hit and one "search" call for the external hit.
func (g *Gatherer) Gather(ctx context.Context, subQuestion string) (snippets, citations []string) {
	g.rec.LogEvent(fmt.Sprintf("Gathering evidence for: %s...", util.Truncate(subQuestion, 50, false)))

	if hit, ok := g.memo[subQuestion]; ok {
		g.rec.IncCacheHit(telemetry.ToolVector)
		g.rec.IncCacheHit(telemetry.ToolSearch)
		return append([]string(nil), hit.snippets...), append([]string(nil), hit.citations...)
	}
	if err := ctx.Err(); err != nil {
		g.logger.Warn("Gather skipped, context done", zap.Error(err))
		return nil, nil
	}

	for _, r := range g.source.SearchLocal(subQuestion) {
		snippets = append(snippets, "KB: "+r.Snippet)
		citations = append(citations, r.Locator)
		g.rec.IncTool(telemetry.ToolVector)
		metrics.EvidenceLookups.WithLabelValues(telemetry.ToolVector).Inc()
	}

	if external := g.source.SearchExternalMock(subQuestion); len(external) > 0 {
		first := external[0]
		snippets = append(snippets, "WEB: "+first.Snippet)
		citations = append(citations, first.Locator)
		g.rec.IncTool(telemetry.ToolSearch)
		metrics.EvidenceLookups.WithLabelValues(telemetry.ToolSearch).Inc()
	}

	if len(snippets) > maxPerSubQuestion {
		snippets = snippets[:maxPerSubQuestion]
	}
	if len(citations) > maxPerSubQuestion {
		citations = citations[:maxPerSubQuestion]
	}

	g.memo[subQuestion] = gathered{snippets: snippets, citations: citations}
	return snippets, citations
}
