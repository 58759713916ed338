// Package analysis defines the aggregated SEO data collected for a single URL.
// All sections are optional; an absent section is represented by a nil pointer
// and contributes nothing to downstream scoring.
package analysis

// Input is the analysis data handed to the governor and insight generator.
type Input struct {
	URL          string        `json:"url,omitempty"`
	TechnicalSEO *TechnicalSEO `json:"technical_seo,omitempty"`
	ScrapedData  *ScrapedData  `json:"scraped_data,omitempty"`
	MozData      *MozData      `json:"moz_data,omitempty"`
}

// TechnicalSEO groups the on-page technical signals.
type TechnicalSEO struct {
	MetaTags *MetaTags `json:"meta_tags,omitempty"`
	Headings Headings  `json:"headings,omitempty"`
	Elements *Elements `json:"technical,omitempty"`
}

// MetaTags holds the document head metadata.
type MetaTags struct {
	Title       string `json:"title"`
	Description string `json:"meta_description"`
	Keywords    string `json:"meta_keywords,omitempty"`
	Viewport    string `json:"viewport,omitempty"`
	Charset     string `json:"charset,omitempty"`
}

// Headings maps a heading level ("h1".."h6") to its occurrence count.
// A nil map means the headings section was not collected.
type Headings map[string]int

// H1 returns the number of level-1 headings.
func (h Headings) H1() int { return h["h1"] }

// Total returns the count summed over all heading levels.
func (h Headings) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Elements holds miscellaneous technical flags.
type Elements struct {
	HasCanonical bool `json:"has_canonical"`
	HasFavicon   bool `json:"has_favicon"`
	HasViewport  bool `json:"has_viewport"`
}

// ScrapedData groups content-level signals extracted from the page body.
type ScrapedData struct {
	Content *Content    `json:"content,omitempty"`
	Images  *ImageStats `json:"images,omitempty"`
	Links   *LinkStats  `json:"links,omitempty"`
}

// Content holds content quality signals. Paragraphs is a pointer because the
// paragraph count is an optional measurement, not a zero default.
type Content struct {
	WordCount         int  `json:"word_count"`
	Paragraphs        *int `json:"paragraphs,omitempty"`
	HasStructuredData bool `json:"has_structured_data"`
}

// ImageStats summarizes image optimization state.
type ImageStats struct {
	Total      int `json:"total_images"`
	MissingAlt int `json:"missing_alt"`
	MissingSrc int `json:"missing_src"`
}

// LinkStats splits page links by destination.
type LinkStats struct {
	Internal int `json:"internal_links"`
	External int `json:"external_links"`
	Total    int `json:"total_links"`
}

// MozData wraps the backlink metrics fetched from the Moz API.
type MozData struct {
	Metrics *MozMetrics `json:"metrics,omitempty"`
}

// MozMetrics are the domain-level backlink metrics.
type MozMetrics struct {
	DomainAuthority float64 `json:"domain_authority"`
	PageAuthority   float64 `json:"page_authority"`
	TotalLinks      int     `json:"total_links"`
	LinkingDomains  int     `json:"linking_domains"`
	SpamScore       float64 `json:"spam_score"`
	LastCrawled     string  `json:"last_crawled,omitempty"`
}
