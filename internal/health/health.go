package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CheckStatus is the result classification of one health check.
type CheckStatus int

const (
	StatusHealthy CheckStatus = iota
	StatusDegraded
	StatusUnhealthy
)

func (s CheckStatus) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// CheckResult is the outcome of a single health check.
type CheckResult struct {
	Component string        `json:"component"`
	Status    CheckStatus   `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
	Critical  bool          `json:"critical"`
}

// Checker is one named probe. Non-critical checker failures degrade the
// service instead of marking it unhealthy.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
	IsCritical() bool
}

// Manager runs registered checkers and aggregates their results.
type Manager struct {
	logger *zap.Logger

	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewManager returns an empty health manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		logger:   logger,
		checkers: make(map[string]Checker),
	}
}

// Register adds a checker, replacing any prior checker with the same name.
func (m *Manager) Register(c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[c.Name()] = c
}

// Check runs every registered checker and returns the individual results
// plus the aggregate status.
func (m *Manager) Check(ctx context.Context) ([]CheckResult, CheckStatus) {
	m.mu.RLock()
	checkers := make([]Checker, 0, len(m.checkers))
	for _, c := range m.checkers {
		checkers = append(checkers, c)
	}
	m.mu.RUnlock()

	overall := StatusHealthy
	results := make([]CheckResult, 0, len(checkers))
	for _, c := range checkers {
		result := c.Check(ctx)
		results = append(results, result)
		if result.Status == StatusHealthy {
			continue
		}
		if c.IsCritical() && result.Status == StatusUnhealthy {
			overall = StatusUnhealthy
		} else if overall == StatusHealthy {
			overall = StatusDegraded
		}
		m.logger.Warn("Health check not healthy",
			zap.String("component", result.Component),
			zap.String("status", result.Status.String()),
			zap.String("error", result.Error))
	}
	return results, overall
}

// Ready reports whether the service should accept traffic.
func (m *Manager) Ready(ctx context.Context) bool {
	_, overall := m.Check(ctx)
	return overall != StatusUnhealthy
}
