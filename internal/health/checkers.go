package health

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/praxisworks/advisor/internal/knowledge"
)

// BackendChecker probes the generative backend's base URL. The pipeline
// degrades to mock/fallback output without a backend, so this checker is
// never critical.
type BackendChecker struct {
	endpoint string
	client   *http.Client
}

// NewBackendChecker builds a checker for an Ollama-style generate endpoint.
func NewBackendChecker(endpoint string) *BackendChecker {
	return &BackendChecker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (b *BackendChecker) Name() string     { return "backend" }
func (b *BackendChecker) IsCritical() bool { return false }

func (b *BackendChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Component: "backend", Timestamp: start}

	if b.endpoint == "" {
		result.Status = StatusDegraded
		result.Message = "no backend configured, serving mock responses"
		result.Duration = time.Since(start)
		return result
	}

	base := b.endpoint
	if parsed, err := url.Parse(b.endpoint); err == nil && parsed.Host != "" {
		base = parsed.Scheme + "://" + parsed.Host + "/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}
	resp, err := b.client.Do(req)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}
	resp.Body.Close()

	if resp.StatusCode >= 500 {
		result.Status = StatusUnhealthy
		result.Error = fmt.Sprintf("backend status %d", resp.StatusCode)
	} else {
		result.Status = StatusHealthy
	}
	result.Duration = time.Since(start)
	return result
}

// CorpusChecker verifies the knowledge corpus is non-empty. An empty corpus
// breaks local evidence gathering, so this checker is critical.
type CorpusChecker struct {
	source *knowledge.Source
}

// NewCorpusChecker builds a checker over the active knowledge source.
func NewCorpusChecker(source *knowledge.Source) *CorpusChecker {
	return &CorpusChecker{source: source}
}

func (c *CorpusChecker) Name() string     { return "corpus" }
func (c *CorpusChecker) IsCritical() bool { return true }

func (c *CorpusChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Component: "corpus", Timestamp: start, Critical: true}

	n := len(c.source.Entries())
	if n == 0 {
		result.Status = StatusUnhealthy
		result.Error = "corpus is empty"
	} else {
		result.Status = StatusHealthy
		result.Message = fmt.Sprintf("%d entries", n)
	}
	result.Duration = time.Since(start)
	return result
}
