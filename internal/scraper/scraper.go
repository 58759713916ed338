// Package scraper fetches a page and extracts the technical and content
// signals that feed an analysis.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
)

const maxBodyBytes = 5 << 20

// Scraper downloads pages over plain HTTP with a browser-like user agent.
type Scraper struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

// Config holds the scraper settings.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	Logger    *zap.Logger
}

// New creates a page scraper.
func New(cfg *Config) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
		logger:     cfg.Logger,
	}
}

// Scrape fetches rawURL and extracts its SEO signals.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*analysis.TechnicalSEO, *analysis.ScrapedData, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", domain.ErrInvalidURL, rawURL)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrPageUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, nil, fmt.Errorf("%w: status %d", domain.ErrPageUnreachable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("parse page: %w", err)
	}

	technical, scraped := Extract(doc, pageURL)
	return technical, scraped, nil
}

// Extract pulls the technical and content signals out of a parsed document.
// pageURL is used to split links into internal and external.
func Extract(doc *goquery.Document, pageURL *url.URL) (*analysis.TechnicalSEO, *analysis.ScrapedData) {
	technical := &analysis.TechnicalSEO{
		MetaTags: extractMetaTags(doc),
		Headings: extractHeadings(doc),
		Elements: extractElements(doc),
	}
	scraped := &analysis.ScrapedData{
		Content: extractContent(doc),
		Images:  extractImages(doc),
		Links:   extractLinks(doc, pageURL),
	}
	return technical, scraped
}

func extractMetaTags(doc *goquery.Document) *analysis.MetaTags {
	tags := &analysis.MetaTags{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		if charset, ok := sel.Attr("charset"); ok {
			tags.Charset = charset
			return
		}
		name, _ := sel.Attr("name")
		content, _ := sel.Attr("content")
		switch strings.ToLower(name) {
		case "description":
			tags.Description = strings.TrimSpace(content)
		case "keywords":
			tags.Keywords = strings.TrimSpace(content)
		case "viewport":
			tags.Viewport = strings.TrimSpace(content)
		}
	})

	return tags
}

func extractHeadings(doc *goquery.Document) analysis.Headings {
	headings := analysis.Headings{}
	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		headings[level] = doc.Find(level).Length()
	}
	return headings
}

func extractElements(doc *goquery.Document) *analysis.Elements {
	return &analysis.Elements{
		HasCanonical: doc.Find(`link[rel="canonical"]`).Length() > 0,
		HasFavicon:   doc.Find(`link[rel="icon"], link[rel="shortcut icon"]`).Length() > 0,
		HasViewport:  doc.Find(`meta[name="viewport"]`).Length() > 0,
	}
}

func extractContent(doc *goquery.Document) *analysis.Content {
	hasStructured := doc.Find(`script[type="application/ld+json"]`).Length() > 0

	body := doc.Find("body")
	body.Find("script, style").Remove()

	paragraphs := body.Find("p").Length()

	return &analysis.Content{
		WordCount:         len(strings.Fields(body.Text())),
		Paragraphs:        &paragraphs,
		HasStructuredData: hasStructured,
	}
}

func extractImages(doc *goquery.Document) *analysis.ImageStats {
	stats := &analysis.ImageStats{}
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		stats.Total++
		if alt, ok := sel.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			stats.MissingAlt++
		}
		if src, ok := sel.Attr("src"); !ok || strings.TrimSpace(src) == "" {
			stats.MissingSrc++
		}
	})
	return stats
}

func extractLinks(doc *goquery.Document, pageURL *url.URL) *analysis.LinkStats {
	stats := &analysis.LinkStats{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return
		}

		target, err := url.Parse(href)
		if err != nil {
			return
		}

		stats.Total++
		if target.Host == "" || target.Host == pageURL.Host {
			stats.Internal++
		} else {
			stats.External++
		}
	})
	return stats
}
