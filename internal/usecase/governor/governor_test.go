package governor

import (
	"errors"
	"testing"
	"time"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
)

// fixedClock returns a settable time source for deterministic rollover tests.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestGovernor(cfg Config) (*Governor, *fixedClock) {
	clock := &fixedClock{t: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	g := New(cfg, nil).WithClock(clock.now)
	return g, clock
}

func TestShouldRun_QuotaBoundary(t *testing.T) {
	g, _ := newTestGovernor(Config{MaxRequestsPerDay: 3})
	in := &analysis.Input{}

	for i := 0; i < 3; i++ {
		if !g.ShouldRun(in) {
			t.Fatalf("request %d should be approved before quota is reached", i+1)
		}
		if err := g.TrackUsage(100, 0.01); err != nil {
			t.Fatalf("TrackUsage failed: %v", err)
		}
	}

	if g.ShouldRun(in) {
		t.Error("expected refusal after quota exhausted")
	}
}

func TestShouldRun_FailOpenBelowThreshold(t *testing.T) {
	// Complexity threshold far above anything this input can score: the gate
	// must still approve once quota allows it.
	g, _ := newTestGovernor(Config{ComplexityThreshold: 1.0})

	in := &analysis.Input{
		MozData: &analysis.MozData{
			Metrics: &analysis.MozMetrics{TotalLinks: 30}, // in [10,50], zero penalty
		},
	}
	if got := Complexity(in); got != 0 {
		t.Fatalf("expected zero complexity for neutral input, got %g", got)
	}

	if !g.ShouldRun(in) {
		t.Error("expected approval: low complexity must not gate enrichment")
	}
}

func TestTrackUsage_Accumulates(t *testing.T) {
	g, _ := newTestGovernor(Config{})

	if err := g.TrackUsage(500, 0.02); err != nil {
		t.Fatalf("TrackUsage failed: %v", err)
	}
	if err := g.TrackUsage(300, 0.01); err != nil {
		t.Fatalf("TrackUsage failed: %v", err)
	}

	rec := g.UsageStats()
	if rec.Requests != 2 {
		t.Errorf("expected 2 requests, got %d", rec.Requests)
	}
	if rec.Tokens != 800 {
		t.Errorf("expected 800 tokens, got %d", rec.Tokens)
	}
	if got, want := rec.Cost, 0.03; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("expected cost %g, got %g", want, got)
	}
}

func TestTrackUsage_RejectsNegative(t *testing.T) {
	g, _ := newTestGovernor(Config{})

	if err := g.TrackUsage(-1, 0); !errors.Is(err, domain.ErrNegativeUsage) {
		t.Errorf("expected ErrNegativeUsage for negative tokens, got %v", err)
	}
	if err := g.TrackUsage(0, -0.5); !errors.Is(err, domain.ErrNegativeUsage) {
		t.Errorf("expected ErrNegativeUsage for negative cost, got %v", err)
	}

	if rec := g.UsageStats(); rec.Requests != 0 {
		t.Errorf("rejected calls must not mutate totals, got %d requests", rec.Requests)
	}
}

func TestDayRollover(t *testing.T) {
	g, clock := newTestGovernor(Config{MaxRequestsPerDay: 10})

	for i := 0; i < 5; i++ {
		if err := g.TrackUsage(100, 0.01); err != nil {
			t.Fatalf("TrackUsage failed: %v", err)
		}
	}
	if rec := g.UsageStats(); rec.Requests != 5 {
		t.Fatalf("expected 5 requests on day D, got %d", rec.Requests)
	}

	clock.advance(24 * time.Hour)

	if rec := g.UsageStats(); rec.Requests != 0 || rec.Tokens != 0 || rec.Cost != 0 {
		t.Errorf("expected zero record on day D+1, got %+v", rec)
	}

	if err := g.TrackUsage(50, 0.005); err != nil {
		t.Fatalf("TrackUsage failed: %v", err)
	}
	if rec := g.UsageStats(); rec.Requests != 1 {
		t.Errorf("expected fresh record with 1 request after rollover, got %d", rec.Requests)
	}
}

func TestDayRollover_ResetsQuota(t *testing.T) {
	g, clock := newTestGovernor(Config{MaxRequestsPerDay: 1})
	in := &analysis.Input{}

	if err := g.TrackUsage(10, 0); err != nil {
		t.Fatalf("TrackUsage failed: %v", err)
	}
	if g.ShouldRun(in) {
		t.Fatal("expected refusal once quota is spent")
	}

	clock.advance(24 * time.Hour)

	if !g.ShouldRun(in) {
		t.Error("expected approval on the next day")
	}
}

func TestConfig_Defaults(t *testing.T) {
	g, _ := newTestGovernor(Config{})
	cfg := g.Config()

	if cfg.MaxRequestsPerDay != 100 {
		t.Errorf("expected default max 100, got %d", cfg.MaxRequestsPerDay)
	}
	if cfg.TokenBuffer != 0.9 {
		t.Errorf("expected default token buffer 0.9, got %g", cfg.TokenBuffer)
	}
	if cfg.ComplexityThreshold != 0.2 {
		t.Errorf("expected default threshold 0.2, got %g", cfg.ComplexityThreshold)
	}
}

func TestConfig_Validate(t *testing.T) {
	bad := []Config{
		{MaxRequestsPerDay: -1},
		{TokenBuffer: 1.5},
		{TokenBuffer: -0.1},
		{ComplexityThreshold: 2},
	}
	for _, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for %+v", cfg)
		}
	}

	ok := Config{MaxRequestsPerDay: 50, TokenBuffer: 0.8, ComplexityThreshold: 0.3}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}
