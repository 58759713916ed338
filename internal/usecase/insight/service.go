// Package insight orchestrates the gated LLM insight generation for one
// analysis and feeds the knowledge store.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/domain/analysis"
	"github.com/zoeklicht/zoeklicht/internal/usecase/governor"
)

// Service generates insights for analyses, consulting the gate before every
// LLM call.
type Service struct {
	gate            Gate
	generator       Generator
	knowledge       KnowledgeStore
	embedder        Embedder
	maxPromptTokens int
	topK            int
	now             func() time.Time
	logger          *zap.Logger
}

// New creates the insight service. knowledge and embedder may be nil, in
// which case past-analysis lookup is skipped.
func New(
	gate Gate,
	generator Generator,
	knowledge KnowledgeStore,
	embedder Embedder,
	maxPromptTokens int,
	topK int,
	logger *zap.Logger,
) *Service {
	return &Service{
		gate:            gate,
		generator:       generator,
		knowledge:       knowledge,
		embedder:        embedder,
		maxPromptTokens: maxPromptTokens,
		topK:            topK,
		now:             time.Now,
		logger:          logger,
	}
}

// WithClock overrides the time source for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Generate produces an insight for the analysis. When the gate declines, a
// basic insight carrying only the complexity score is returned and no tokens
// are spent. Knowledge-store failures never fail the insight.
func (s *Service) Generate(ctx context.Context, in *analysis.Input) (*domain.Insight, []domain.SimilarAnalysis, error) {
	complexity := governor.Complexity(in)

	if !s.gate.ShouldRun(in) {
		s.logger.Info("returning basic insight, gate declined",
			zap.String("url", in.URL),
			zap.Float64("complexity", complexity),
		)
		return &domain.Insight{Kind: domain.InsightBasic, Complexity: complexity}, nil, nil
	}

	prompt, err := buildPrompt(in)
	if err != nil {
		return nil, nil, fmt.Errorf("build prompt: %w", err)
	}
	prompt = s.gate.OptimizePrompt(prompt, s.maxPromptTokens)

	result, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate insight: %w", err)
	}

	cost := s.generator.Cost(result.Usage.Total)
	if err := s.gate.TrackUsage(result.Usage.Total, cost); err != nil {
		s.logger.Warn("failed to track usage", zap.Error(err))
	}

	similar := s.recordAnalysis(ctx, in, result.Text)

	return &domain.Insight{
		Kind:       domain.InsightEnhanced,
		Text:       result.Text,
		Complexity: complexity,
		Tokens:     result.Usage,
		Cost:       cost,
	}, similar, nil
}

// recordAnalysis embeds the insight text, stores it and looks up similar
// past analyses. Best effort: failures are logged and swallowed.
func (s *Service) recordAnalysis(ctx context.Context, in *analysis.Input, summary string) []domain.SimilarAnalysis {
	if s.knowledge == nil || s.embedder == nil || summary == "" {
		return nil
	}

	emb, err := s.embedder.Embed(ctx, summary)
	if err != nil {
		s.logger.Warn("failed to embed insight", zap.String("url", in.URL), zap.Error(err))
		return nil
	}

	similar, err := s.knowledge.QuerySimilar(ctx, emb.Embedding, s.topK)
	if err != nil {
		s.logger.Warn("failed to query similar analyses", zap.Error(err))
	}

	id := uuid.NewString()
	if err := s.knowledge.Add(ctx, id, in.URL, summary, emb.Embedding, s.now().Unix()); err != nil {
		s.logger.Warn("failed to store analysis", zap.String("id", id), zap.Error(err))
	}

	return similar
}

// buildPrompt renders the collected analysis as indented JSON wrapped in the
// analyst instruction.
func buildPrompt(in *analysis.Input) (string, error) {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Based on the following SEO data:\n%s\nProvide strategic recommendations for improvement.\nFocus on actionable steps and prioritize by impact.",
		data,
	), nil
}
