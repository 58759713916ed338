package audit

import (
	"context"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
)

// PageScraper collects on-page signals for a URL.
type PageScraper interface {
	Scrape(ctx context.Context, rawURL string) (*analysis.TechnicalSEO, *analysis.ScrapedData, error)
}

// BacklinkProvider fetches domain-level backlink metrics.
type BacklinkProvider interface {
	DomainMetrics(ctx context.Context, domainName string) (*analysis.MozData, error)
}

// InsightGenerator produces the gated insight for a collected analysis.
type InsightGenerator interface {
	Generate(ctx context.Context, in *analysis.Input) (*domain.Insight, []domain.SimilarAnalysis, error)
}
