package insight

import (
	"context"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
)

// Gate decides whether the LLM call is worth making and accounts for it.
type Gate interface {
	ShouldRun(in *analysis.Input) bool
	OptimizePrompt(prompt string, maxTokens int) string
	TrackUsage(tokens int, cost float64) error
}

// Generator produces the LLM completion and prices its token usage.
type Generator interface {
	Generate(ctx context.Context, prompt string) (domain.CompletionResult, error)
	Cost(tokens int) float64
}

// KnowledgeStore persists analyzed pages and finds similar past analyses.
type KnowledgeStore interface {
	Add(ctx context.Context, id, url, summary string, vector []float32, analyzedAt int64) error
	QuerySimilar(ctx context.Context, vector []float32, topK int) ([]domain.SimilarAnalysis, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
