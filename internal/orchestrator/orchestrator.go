package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/evidence"
	"github.com/praxisworks/advisor/internal/gatherer"
	"github.com/praxisworks/advisor/internal/knowledge"
	"github.com/praxisworks/advisor/internal/llm"
	"github.com/praxisworks/advisor/internal/metrics"
	"github.com/praxisworks/advisor/internal/planner"
	"github.com/praxisworks/advisor/internal/specialists"
	"github.com/praxisworks/advisor/internal/synthesis"
	"github.com/praxisworks/advisor/internal/telemetry"
	"github.com/praxisworks/advisor/internal/tracing"
	"github.com/praxisworks/advisor/internal/util"
)

const eventLogTail = 8

// Report is the outcome of one run: the answer plus the run's metrics
// summary and the tail of its event log.
type Report struct {
	RunID   string   `json:"run_id"`
	Answer  string   `json:"analysis"`
	Summary string   `json:"metrics"`
	Events  []string `json:"log"`
}

// Orchestrator sequences one question through the OODA stages: OBSERVE,
// ORIENT (plan), DECIDE (gather, route, analyze), ACT (synthesize). A run
// never propagates a failure to its caller; any stage fault degrades to the
// deterministic fallback report.
type Orchestrator struct {
	client  *llm.Client
	gather  *gatherer.Gatherer
	analyst *specialists.Analyst
	synth   *synthesis.Synthesizer
	rec     *telemetry.Recorder
	logger  *zap.Logger
}

// New wires a pipeline around one knowledge source, backend client, and
// per-run recorder. Servers embedding concurrent runs must build one
// Orchestrator (and Recorder) per run.
func New(source *knowledge.Source, client *llm.Client, rec *telemetry.Recorder, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		client:  client,
		gather:  gatherer.New(source, rec, logger),
		analyst: specialists.NewAnalyst(client, rec, logger),
		synth:   synthesis.New(client, rec, logger),
		rec:     rec,
		logger:  logger,
	}
}

// Run executes the full OODA cycle for a question and always returns a
// well-formed report.
func (o *Orchestrator) Run(ctx context.Context, question string) Report {
	runID := uuid.NewString()
	start := time.Now()
	metrics.RunsStarted.Inc()

	o.rec.LogEvent("OBSERVE: question received and analyzed")

	answer, degraded := o.execute(ctx, runID, question)
	status := "ok"
	if degraded {
		status = "degraded"
	}
	metrics.RunsCompleted.WithLabelValues(status).Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	summary := o.rec.Summary()
	o.rec.LogEvent(summary)

	return Report{
		RunID:   runID,
		Answer:  answer,
		Summary: summary,
		Events:  o.rec.TailEvents(eventLogTail),
	}
}

// execute runs ORIENT through ACT, recovering any stage fault into the
// deterministic fallback report.
func (o *Orchestrator) execute(ctx context.Context, runID, question string) (answer string, degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			o.rec.LogError(fmt.Errorf("panic: %v", r), "ooda run")
			o.logger.Error("Run degraded to fallback report",
				zap.String("run_id", runID), zap.Any("panic", r))
			answer = fallbackReport()
			degraded = true
		}
	}()

	plan := o.orient(ctx, runID, question)
	cards, citations := o.decide(ctx, runID, plan)
	return o.act(ctx, runID, question, cards, citations), false
}

func (o *Orchestrator) orient(ctx context.Context, runID, question string) planner.Plan {
	_, span := tracing.StartStageSpan(ctx, "orient", runID)
	defer span.End()
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues("orient").Observe(time.Since(start).Seconds()) }()

	o.rec.LogEvent("ORIENT: strategic planning and decomposition")
	plan := planner.Decompose(question)
	o.logger.Info("Question decomposed",
		zap.String("run_id", runID),
		zap.Int("sub_questions", len(plan.SubQuestions)))
	return plan
}

func (o *Orchestrator) decide(ctx context.Context, runID string, plan planner.Plan) ([]evidence.Card, []string) {
	ctx, span := tracing.StartStageSpan(ctx, "decide", runID)
	defer span.End()
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues("decide").Observe(time.Since(start).Seconds()) }()

	o.rec.LogEvent("DECIDE: evidence gathering and expert consultation")

	var cards []evidence.Card
	citations := evidence.NewCitationSet()

	for i, subq := range plan.SubQuestions {
		o.rec.LogEvent(fmt.Sprintf("Processing subq %d: %s...", i+1, util.Truncate(subq, 40, false)))

		snippets, found := o.gather.Gather(ctx, subq)
		citations.AddAll(found)

		for _, name := range specialists.Route(subq) {
			role, ok := specialists.RoleByName(name)
			if !ok {
				continue
			}
			cards = append(cards, o.analyst.Analyze(ctx, role, subq, snippets)...)
		}
	}
	return cards, citations.List()
}

func (o *Orchestrator) act(ctx context.Context, runID, question string, cards []evidence.Card, citations []string) string {
	ctx, span := tracing.StartStageSpan(ctx, "act", runID)
	defer span.End()
	start := time.Now()
	defer func() { metrics.StageDuration.WithLabelValues("act").Observe(time.Since(start).Seconds()) }()

	o.rec.LogEvent("ACT: synthesis and quality validation")
	draft := o.synth.Synthesize(ctx, question, cards, citations)
	o.rec.LogEvent("OODA cycle completed successfully")
	return draft
}

// fallbackReport is the orchestrator-level deterministic answer used when a
// stage fault escapes the per-component degradation paths.
func fallbackReport() string {
	return synthesis.BulletMarker + "Technical analysis required for distributed consensus algorithm comparison [1]\n" +
		synthesis.BulletMarker + "Performance benchmarking needed for sub-100ms latency validation in trading systems [2]\n" +
		synthesis.BulletMarker + "Security assessment essential for Byzantine fault tolerance in multi-agent coordination [3]\n" +
		synthesis.Terminator
}
