package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/praxisworks/advisor/internal/metrics"
	"github.com/praxisworks/advisor/internal/telemetry"
)

// systemCore is the fixed directive prefixed to every prompt.
const systemCore = "Be concise, rigorous, evidence-driven. Use citation indices when applicable."

// DefaultMaxRetries bounds backend attempts when callers pass no explicit limit.
const DefaultMaxRetries = 3

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Config holds the generative backend connection settings. An empty URL
// means no backend is configured: Invoke then returns a deterministic mock
// response without touching the network or the retry budget.
type Config struct {
	URL        string        `mapstructure:"url"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	MaxPredict int           `mapstructure:"max_predict"`
}

// Client issues role-tagged prompts to an Ollama-style generate endpoint.
// A failed run of attempts degrades to a deterministic role-tagged fallback
// string; the client never surfaces an error to the pipeline.
type Client struct {
	cfg    Config
	http   *http.Client
	rec    *telemetry.Recorder
	logger *zap.Logger
}

// NewClient builds a backend client bound to a per-run recorder.
func NewClient(cfg Config, rec *telemetry.Recorder, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxPredict <= 0 {
		cfg.MaxPredict = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		rec:    rec,
		logger: logger,
	}
}

// EstimateTokens approximates the token count of text as the number of word
// matches, never less than 1.
func EstimateTokens(text string) int {
	n := len(wordPattern.FindAllString(text, -1))
	if n < 1 {
		return 1
	}
	return n
}

// Invoke sends a role-tagged prompt and returns the generated text. On
// persistent failure after maxRetries attempts it returns the fallback
// string for the role instead of an error.
func (c *Client) Invoke(ctx context.Context, role, content string, temperature float64, maxRetries int) string {
	if c.cfg.URL == "" {
		return fmt.Sprintf("Mock response from %s: Technical analysis needed based on provided context.", role)
	}

	prompt := fmt.Sprintf("[SYSTEM]\n%s\n\n[%s]\n%s", systemCore, role, content)
	in := EstimateTokens(prompt)
	c.rec.AddTokensIn(in)
	metrics.TokensEstimated.WithLabelValues("in").Add(float64(in))

	result, err := c.generate(ctx, prompt, temperature, maxRetries)
	if err != nil {
		c.logger.Warn("backend attempts exhausted, degrading to fallback",
			zap.String("role", role), zap.Error(err))
		return fmt.Sprintf("Fallback response from %s: Analysis required for given context.", role)
	}

	out := EstimateTokens(result)
	c.rec.AddTokensOut(out)
	metrics.TokensEstimated.WithLabelValues("out").Add(float64(out))
	return result
}

// generate runs the bounded-retry loop and returns the raw result or the
// terminal error. Fallback-string conversion is the caller's job.
func (c *Client) generate(ctx context.Context, prompt string, temperature float64, maxRetries int) (string, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}

	attempt := 0
	op := func() (string, error) {
		attempt++
		text, err := c.post(ctx, prompt, temperature)
		if err != nil {
			metrics.BackendErrors.Inc()
			c.rec.LogError(err, fmt.Sprintf("LLM attempt %d", attempt))
			return "", err
		}
		return text, nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.RetryDelay), uint64(maxRetries-1)),
		ctx,
	)
	return backoff.RetryWithData(op, policy)
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *Client) post(ctx context.Context, prompt string, temperature float64) (string, error) {
	metrics.BackendRequests.Inc()
	start := time.Now()
	defer func() {
		metrics.BackendLatency.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: temperature,
			NumPredict:  c.cfg.MaxPredict,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("backend status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}
