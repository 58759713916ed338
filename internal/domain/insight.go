package domain

// InsightKind distinguishes a full LLM-generated insight from the cheap fallback.
type InsightKind string

const (
	// InsightBasic is returned when the governor declines the LLM call.
	InsightBasic InsightKind = "basic"
	// InsightEnhanced carries LLM-generated recommendations.
	InsightEnhanced InsightKind = "enhanced"
)

// TokenUsage is the token consumption of a single completion call.
type TokenUsage struct {
	Prompt     int `json:"prompt_tokens"`
	Completion int `json:"completion_tokens"`
	Total      int `json:"total_tokens"`
}

// CompletionResult is the raw outcome of an LLM completion call.
type CompletionResult struct {
	Text  string
	Usage TokenUsage
}

// Insight is the enrichment produced for one analysis.
type Insight struct {
	Kind       InsightKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Complexity float64     `json:"complexity"`
	Tokens     TokenUsage  `json:"tokens"`
	Cost       float64     `json:"cost"`
}
