package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	RunsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_runs_started_total",
			Help: "Total number of advisory runs started",
		},
	)

	RunsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_runs_completed_total",
			Help: "Total number of advisory runs completed",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_run_duration_seconds",
			Help:    "End-to-end run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_stage_duration_seconds",
			Help:    "Per-stage duration of the OODA loop in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// Backend metrics
	BackendRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_backend_requests_total",
			Help: "Total number of generative backend requests attempted",
		},
	)

	BackendErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_backend_errors_total",
			Help: "Total number of failed generative backend attempts",
		},
	)

	BackendLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_backend_latency_seconds",
			Help:    "Generative backend request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	TokensEstimated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_tokens_estimated_total",
			Help: "Estimated tokens sent to and received from the backend",
		},
		[]string{"direction"},
	)

	// Evidence metrics
	EvidenceLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_evidence_lookups_total",
			Help: "Total number of evidence source lookups",
		},
		[]string{"tool"},
	)

	// Synthesis metrics
	SynthesisFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_synthesis_fallbacks_total",
			Help: "Total number of reports replaced by the deterministic fallback",
		},
	)

	CorpusReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "advisor_corpus_reloads_total",
			Help: "Total number of knowledge corpus reloads",
		},
	)
)
