// Package governor decides, per analysis, whether the costly LLM insight call
// is worth making, and tracks consumption against a rolling daily quota.
package governor

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
	"github.com/zoeklicht/zoeklicht/internal/domain/usage"
	"github.com/zoeklicht/zoeklicht/internal/metrics"
)

// Config holds the governor limits. Immutable after construction.
type Config struct {
	MaxRequestsPerDay   int
	TokenBuffer         float64 // safety margin applied when truncating prompts, (0,1]
	ComplexityThreshold float64 // decision boundary for the complexity score, [0,1]
}

// ApplyDefaults fills unset fields with default values.
func (c *Config) ApplyDefaults() {
	if c.MaxRequestsPerDay == 0 {
		c.MaxRequestsPerDay = 100
	}
	if c.TokenBuffer == 0 {
		c.TokenBuffer = 0.9
	}
	if c.ComplexityThreshold == 0 {
		c.ComplexityThreshold = 0.2
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.MaxRequestsPerDay < 0 {
		return fmt.Errorf("max_requests_per_day must be positive, got %d", c.MaxRequestsPerDay)
	}
	if c.TokenBuffer < 0 || c.TokenBuffer > 1 {
		return fmt.Errorf("token_buffer must be in (0,1], got %g", c.TokenBuffer)
	}
	if c.ComplexityThreshold < 0 || c.ComplexityThreshold > 1 {
		return fmt.Errorf("complexity_threshold must be in [0,1], got %g", c.ComplexityThreshold)
	}
	return nil
}

// Governor gates LLM insight calls behind a daily quota and complexity
// telemetry. State is in-memory only: usage history survives neither a day
// boundary nor a process restart.
type Governor struct {
	mu        sync.Mutex
	cfg       Config
	history   map[string]*usage.Record // keyed by calendar date, holds today only
	lastReset time.Time
	now       func() time.Time
	logger    *zap.Logger
}

// New creates a Governor. Zero-valued config fields take defaults.
func New(cfg Config, logger *zap.Logger) *Governor {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Governor{
		cfg:     cfg,
		history: make(map[string]*usage.Record),
		now:     time.Now,
		logger:  logger,
	}
	g.lastReset = dateOf(g.now())
	return g
}

// WithClock overrides the time source for deterministic tests.
func (g *Governor) WithClock(now func() time.Time) *Governor {
	g.now = now
	g.lastReset = dateOf(now())
	return g
}

// Config returns a copy of the effective configuration.
func (g *Governor) Config() Config { return g.cfg }

// MaxRequestsPerDay returns the daily request quota.
func (g *Governor) MaxRequestsPerDay() int { return g.cfg.MaxRequestsPerDay }

// ShouldRun reports whether the LLM insight call should be made for the given
// analysis. It refuses only when today's quota is exhausted. Below-threshold
// complexity does NOT refuse: the low-complexity branch deliberately falls
// open so enrichment always runs once quota allows it, and the score is kept
// for logging and telemetry only.
func (g *Governor) ShouldRun(in *analysis.Input) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.rolloverLocked()

	if rec, ok := g.history[dayKey(today)]; ok && rec.Requests >= g.cfg.MaxRequestsPerDay {
		g.logger.Warn("insight call refused, daily quota exhausted",
			zap.Int("requests", rec.Requests),
			zap.Int("max_requests_per_day", g.cfg.MaxRequestsPerDay),
		)
		metrics.GateDecisionsTotal.WithLabelValues("quota_exhausted").Inc()
		return false
	}

	score := Complexity(in)
	aboveThreshold := score > g.cfg.ComplexityThreshold*0.8

	g.logger.Info("insight gate approved",
		zap.Float64("complexity", score),
		zap.Float64("threshold", g.cfg.ComplexityThreshold),
		zap.Bool("above_threshold", aboveThreshold),
	)
	metrics.GateDecisionsTotal.WithLabelValues("approved").Inc()
	return true
}

// TrackUsage folds the actual consumption of one completed insight call into
// today's running totals. Not idempotent: call exactly once per call made.
func (g *Governor) TrackUsage(tokens int, cost float64) error {
	if tokens < 0 || cost < 0 {
		return fmt.Errorf("tokens=%d cost=%g: %w", tokens, cost, domain.ErrNegativeUsage)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	today := g.rolloverLocked()
	key := dayKey(today)

	rec := g.history[key]
	if rec == nil {
		rec = &usage.Record{}
		g.history[key] = rec
	}
	rec.Requests++
	rec.Tokens += tokens
	rec.Cost += cost

	g.logger.Info("insight usage tracked",
		zap.Int("requests", rec.Requests),
		zap.Int("tokens", rec.Tokens),
		zap.Float64("cost", rec.Cost),
	)
	return nil
}

// UsageStats returns today's usage record, zeros if none. Read-only: a stale
// record from a previous day is simply not visible, no reset is performed.
func (g *Governor) UsageStats() usage.Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rec, ok := g.history[dayKey(dateOf(g.now()))]; ok {
		return *rec
	}
	return usage.Record{}
}

// rolloverLocked clears all usage history when the day has advanced past the
// last reset. Must be called with g.mu held. Returns today's date.
func (g *Governor) rolloverLocked() time.Time {
	today := dateOf(g.now())
	if today.After(g.lastReset) {
		g.history = make(map[string]*usage.Record)
		g.lastReset = today
	}
	return today
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
