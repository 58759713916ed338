// Package domain holds shared value types and contracts of the zoeklicht service.
package domain

import "context"

// KeyPrefix namespaces all keys written to the database.
const KeyPrefix = "zoeklicht:"

// EmbeddingResult is the outcome of vectorizing a text.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies an external dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SimilarAnalysis is a past analysis retrieved by vector similarity.
type SimilarAnalysis struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Summary string  `json:"summary"`
	Score   float64 `json:"score"`
}
