// Package audit runs the full analysis pipeline for one URL: scrape,
// backlink metrics, gated insight, report.
package audit

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
	"github.com/zoeklicht/zoeklicht/internal/report"
)

// Result is the outcome of one audit.
type Result struct {
	Input   *analysis.Input          `json:"analysis"`
	Insight *domain.Insight          `json:"insight"`
	Similar []domain.SimilarAnalysis `json:"similar_analyses,omitempty"`
	Report  *report.Report           `json:"report"`
}

// Service orchestrates the audit pipeline.
type Service struct {
	scraper   PageScraper
	backlinks BacklinkProvider
	insights  InsightGenerator
	now       func() time.Time
	logger    *zap.Logger
}

// New creates the audit service. backlinks can be nil when no Moz token is
// configured.
func New(scraper PageScraper, backlinks BacklinkProvider, insights InsightGenerator, logger *zap.Logger) *Service {
	return &Service{
		scraper:   scraper,
		backlinks: backlinks,
		insights:  insights,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run audits rawURL. Scrape failures abort the audit; backlink metrics are
// optional and their failure only loses the Moz section.
func (s *Service) Run(ctx context.Context, rawURL string) (*Result, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}

	technical, scraped, err := s.scraper.Scrape(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("scrape %s: %w", rawURL, err)
	}

	in := &analysis.Input{
		URL:          rawURL,
		TechnicalSEO: technical,
		ScrapedData:  scraped,
	}

	if s.backlinks != nil {
		mozData, err := s.backlinks.DomainMetrics(ctx, pageURL.Hostname())
		if err != nil {
			s.logger.Warn("backlink metrics unavailable",
				zap.String("domain", pageURL.Hostname()),
				zap.Error(err),
			)
		} else {
			in.MozData = mozData
		}
	}

	insight, similar, err := s.insights.Generate(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("generate insight for %s: %w", rawURL, err)
	}

	return &Result{
		Input:   in,
		Insight: insight,
		Similar: similar,
		Report:  report.Build(in, insight, similar, s.now()),
	}, nil
}
