// Package report renders an analysis into a Dutch-labeled report structure.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
)

// Report is the presentation-ready analysis summary.
type Report struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
	Footer      string    `json:"footer"`
}

// Section groups related rows under a translated heading.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Row is a single labeled value.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Build assembles the report from the collected analysis, the generated
// insight and any similar past analyses. Absent sections are skipped.
func Build(in *analysis.Input, insight *domain.Insight, similar []domain.SimilarAnalysis, generatedAt time.Time) *Report {
	r := &Report{
		Title:       Translate("seo_analysis_report"),
		GeneratedAt: generatedAt,
		Footer:      Translate("generated_by_seo_tool"),
	}
	if in == nil {
		return r
	}
	r.URL = in.URL

	if s := technicalSection(in.TechnicalSEO); s != nil {
		r.Sections = append(r.Sections, *s)
	}
	if s := contentSection(in.ScrapedData); s != nil {
		r.Sections = append(r.Sections, *s)
	}
	if s := mozSection(in.MozData); s != nil {
		r.Sections = append(r.Sections, *s)
	}
	if insight != nil && insight.Text != "" {
		r.Sections = append(r.Sections, Section{
			Title: Translate("recommendations"),
			Text:  insight.Text,
		})
	}
	if len(similar) > 0 {
		rows := make([]Row, 0, len(similar))
		for _, s := range similar {
			rows = append(rows, Row{Label: s.URL, Value: fmt.Sprintf("%.2f", s.Score)})
		}
		r.Sections = append(r.Sections, Section{Title: Translate("overview"), Rows: rows})
	}

	return r
}

func technicalSection(t *analysis.TechnicalSEO) *Section {
	if t == nil {
		return nil
	}

	s := &Section{Title: Translate("technical_seo")}
	if t.MetaTags != nil {
		s.Rows = append(s.Rows,
			Row{Label: Translate("meta_tags"), Value: t.MetaTags.Title},
		)
		if t.MetaTags.Description == "" {
			s.Rows = append(s.Rows, Row{Label: Translate("missing_meta"), Value: "meta_description"})
		}
	}
	if t.Headings != nil {
		s.Rows = append(s.Rows, Row{
			Label: Translate("headings"),
			Value: strconv.Itoa(t.Headings.Total()),
		})
	}
	if len(s.Rows) == 0 {
		return nil
	}
	return s
}

func contentSection(d *analysis.ScrapedData) *Section {
	if d == nil {
		return nil
	}

	s := &Section{Title: Translate("content_quality")}
	if d.Content != nil {
		s.Rows = append(s.Rows, Row{
			Label: Translate("word_count"),
			Value: strconv.Itoa(d.Content.WordCount),
		})
		if d.Content.Paragraphs != nil {
			s.Rows = append(s.Rows, Row{
				Label: Translate("paragraphs"),
				Value: strconv.Itoa(*d.Content.Paragraphs),
			})
		}
		s.Rows = append(s.Rows, Row{
			Label: Translate("has_structured_data"),
			Value: boolValue(d.Content.HasStructuredData),
		})
	}
	if d.Images != nil {
		s.Rows = append(s.Rows, Row{
			Label: Translate("image_optimization"),
			Value: fmt.Sprintf("%d/%d", d.Images.Total-d.Images.MissingAlt, d.Images.Total),
		})
	}
	if d.Links != nil {
		s.Rows = append(s.Rows, Row{
			Label: Translate("links"),
			Value: strconv.Itoa(d.Links.Total),
		})
	}
	if len(s.Rows) == 0 {
		return nil
	}
	return s
}

func mozSection(m *analysis.MozData) *Section {
	if m == nil || m.Metrics == nil {
		return nil
	}

	metrics := m.Metrics
	s := &Section{Title: Translate("moz_metrics")}
	s.Rows = append(s.Rows,
		Row{Label: Translate("domain_authority"), Value: fmt.Sprintf("%.0f", metrics.DomainAuthority)},
		Row{Label: Translate("page_authority"), Value: fmt.Sprintf("%.0f", metrics.PageAuthority)},
		Row{Label: Translate("total_links"), Value: strconv.Itoa(metrics.TotalLinks)},
		Row{Label: Translate("linking_domains"), Value: strconv.Itoa(metrics.LinkingDomains)},
		Row{Label: Translate("spam_score"), Value: fmt.Sprintf("%.1f", metrics.SpamScore)},
	)
	if metrics.LastCrawled != "" {
		s.Rows = append(s.Rows, Row{Label: Translate("last_crawled"), Value: metrics.LastCrawled})
	}
	return s
}

func boolValue(b bool) string {
	if b {
		return "Ja"
	}
	return "Nee"
}
