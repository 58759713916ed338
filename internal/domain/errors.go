package domain

import "errors"

// Sentinel errors shared across the service.
var (
	// ErrInvalidURL signals a malformed or unsupported analysis target.
	ErrInvalidURL = errors.New("invalid url")
	// ErrPageUnreachable signals that the target page could not be fetched.
	ErrPageUnreachable = errors.New("page unreachable")
	// ErrNegativeUsage signals a usage report with negative tokens or cost.
	ErrNegativeUsage = errors.New("negative usage")
	// ErrInsightProviderError signals an LLM provider failure.
	ErrInsightProviderError = errors.New("insight provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrBacklinkProviderError signals a Moz API failure.
	ErrBacklinkProviderError = errors.New("backlink provider error")
)
