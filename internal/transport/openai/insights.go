package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/zoeklicht/zoeklicht/internal/domain"
	"github.com/zoeklicht/zoeklicht/internal/metrics"
)

const systemPrompt = "You are an expert SEO analyst."

// Generator produces SEO insight completions via the OpenAI-compatible API.
type Generator struct {
	client               *openai.Client
	model                string
	maxTokens            int
	temperature          float32
	costPerMillionTokens float64
	logger               *zap.Logger
}

// GeneratorConfig holds the insight provider settings.
type GeneratorConfig struct {
	APIKey               string
	BaseURL              string
	Model                string
	MaxTokens            int
	Temperature          float32
	CostPerMillionTokens float64
	Logger               *zap.Logger
}

// NewGenerator creates an OpenAI-compatible insight generator.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	return &Generator{
		client:               newClient(cfg.APIKey, cfg.BaseURL),
		model:                cfg.Model,
		maxTokens:            cfg.MaxTokens,
		temperature:          cfg.Temperature,
		costPerMillionTokens: cfg.CostPerMillionTokens,
		logger:               cfg.Logger,
	}
}

// Generate sends the prompt as a single chat completion and returns the text
// with real token usage from the API.
func (g *Generator) Generate(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.InsightRequestsTotal.WithLabelValues(providerLabel, g.model, "error").Inc()
		return domain.CompletionResult{}, parseAPIError(err, domain.ErrInsightProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.InsightRequestsTotal.WithLabelValues(providerLabel, g.model, "error").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrInsightProviderError)
	}

	metrics.InsightRequestsTotal.WithLabelValues(providerLabel, g.model, "success").Inc()
	metrics.InsightRequestDuration.WithLabelValues(providerLabel, g.model).Observe(duration.Seconds())

	usage := domain.TokenUsage{
		Prompt:     resp.Usage.PromptTokens,
		Completion: resp.Usage.CompletionTokens,
		Total:      resp.Usage.TotalTokens,
	}
	if usage.Total > 0 {
		metrics.InsightTokensTotal.WithLabelValues(providerLabel, g.model, "prompt").Add(float64(usage.Prompt))
		metrics.InsightTokensTotal.WithLabelValues(providerLabel, g.model, "completion").Add(float64(usage.Completion))
		metrics.InsightCostTotal.WithLabelValues(providerLabel, g.model).Add(g.Cost(usage.Total))
	}

	return domain.CompletionResult{
		Text:  resp.Choices[0].Message.Content,
		Usage: usage,
	}, nil
}

// Cost converts a token count to USD at the configured per-million rate.
func (g *Generator) Cost(tokens int) float64 {
	return float64(tokens) / 1_000_000 * g.costPerMillionTokens
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (g *Generator) HealthCheck(ctx context.Context) error {
	if _, err := g.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
