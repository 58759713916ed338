// Package usage reports the governor's daily consumption.
package usage

import (
	"context"
	"time"

	domusage "github.com/zoeklicht/zoeklicht/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	gr  GovernorReader
	now func() time.Time
}

// New creates a Service.
func New(gr GovernorReader) *Service {
	return &Service{gr: gr, now: time.Now}
}

// WithClock overrides the time source for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DailyReport builds the usage report for the current calendar day.
func (s *Service) DailyReport(_ context.Context) domusage.Report {
	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	record := s.gr.UsageStats()
	max := s.gr.MaxRequestsPerDay()

	remaining := max - record.Requests
	if remaining < 0 {
		remaining = 0
	}

	return domusage.Report{
		PeriodStart: dayStart.UnixMilli(),
		PeriodEnd:   dayEnd.UnixMilli(),
		Record:      record,
		RequestsMax: max,
		Remaining:   remaining,
		Exhausted:   max > 0 && record.Requests >= max,
	}
}
