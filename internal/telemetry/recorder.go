package telemetry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Tool names tracked by the recorder.
const (
	ToolSearch = "search"
	ToolFetch  = "fetch"
	ToolVector = "vector"
)

// Recorder accumulates counters and an ordered event log for a single
// question run. It is owned by the orchestrator for the lifetime of one run;
// embedding servers must create one Recorder per concurrent run.
type Recorder struct {
	logger *zap.Logger

	start     atomic.Int64 // unix nanos
	tokensIn  atomic.Int64
	tokensOut atomic.Int64
	errors    atomic.Int64

	toolCalls map[string]*atomic.Int64
	cacheHits map[string]*atomic.Int64

	mu     sync.Mutex
	events []string
}

// NewRecorder returns a Recorder with the start clock set to now.
// A nil logger disables mirror logging of events.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		logger:    logger,
		toolCalls: newCounterSet(),
		cacheHits: newCounterSet(),
	}
	r.start.Store(time.Now().UnixNano())
	return r
}

func newCounterSet() map[string]*atomic.Int64 {
	return map[string]*atomic.Int64{
		ToolSearch: {},
		ToolFetch:  {},
		ToolVector: {},
	}
}

// Reset clears all counters and the event log for a new question. The
// embedding driver must call this before each run when reusing a Recorder.
func (r *Recorder) Reset() {
	r.start.Store(time.Now().UnixNano())
	r.tokensIn.Store(0)
	r.tokensOut.Store(0)
	r.errors.Store(0)
	for _, c := range r.toolCalls {
		c.Store(0)
	}
	for _, c := range r.cacheHits {
		c.Store(0)
	}
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// AddTokensIn adds n to the input token estimate.
func (r *Recorder) AddTokensIn(n int) { r.tokensIn.Add(int64(n)) }

// AddTokensOut adds n to the output token estimate.
func (r *Recorder) AddTokensOut(n int) { r.tokensOut.Add(int64(n)) }

// TokensIn returns the accumulated input token estimate.
func (r *Recorder) TokensIn() int64 { return r.tokensIn.Load() }

// TokensOut returns the accumulated output token estimate.
func (r *Recorder) TokensOut() int64 { return r.tokensOut.Load() }

// IncTool increments the call counter for the named tool.
func (r *Recorder) IncTool(tool string) {
	if c, ok := r.toolCalls[tool]; ok {
		c.Add(1)
	}
}

// IncCacheHit increments the cache-hit counter for the named tool.
func (r *Recorder) IncCacheHit(tool string) {
	if c, ok := r.cacheHits[tool]; ok {
		c.Add(1)
	}
}

// ToolCalls returns a snapshot of the per-tool call counters.
func (r *Recorder) ToolCalls() map[string]int64 {
	out := make(map[string]int64, len(r.toolCalls))
	for name, c := range r.toolCalls {
		out[name] = c.Load()
	}
	return out
}

// CacheHits returns a snapshot of the per-tool cache-hit counters.
func (r *Recorder) CacheHits() map[string]int64 {
	out := make(map[string]int64, len(r.cacheHits))
	for name, c := range r.cacheHits {
		out[name] = c.Load()
	}
	return out
}

// ErrorCount returns the number of errors logged so far.
func (r *Recorder) ErrorCount() int64 { return r.errors.Load() }

// LogEvent appends a timestamped entry to the event log.
func (r *Recorder) LogEvent(msg string) {
	elapsed := time.Since(time.Unix(0, r.start.Load())).Seconds()
	event := fmt.Sprintf("[%6.2fs] %s", elapsed, msg)
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	r.logger.Info(msg, zap.Float64("elapsed_s", elapsed))
}

// LogError increments the error counter and records the failure in the
// event log with its context label.
func (r *Recorder) LogError(err error, context string) {
	r.errors.Add(1)
	r.LogEvent(fmt.Sprintf("ERROR in %s: %v", context, err))
}

// Events returns a copy of the full event log.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// TailEvents returns the last n events, or all of them if fewer exist.
func (r *Recorder) TailEvents(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n >= len(r.events) {
		n = len(r.events)
	}
	out := make([]string, n)
	copy(out, r.events[len(r.events)-n:])
	return out
}

// Duration returns the elapsed time since the recorder was started or reset.
func (r *Recorder) Duration() time.Duration {
	return time.Since(time.Unix(0, r.start.Load()))
}

// Summary renders a one-line run summary suitable for the end-of-run report.
func (r *Recorder) Summary() string {
	tools := r.ToolCalls()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s:%d", name, tools[name]))
	}
	return fmt.Sprintf("Duration: %.2fs | Tools: map[%s] | Errors: %d",
		r.Duration().Seconds(), strings.Join(parts, " "), r.errors.Load())
}
