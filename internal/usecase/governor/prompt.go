package governor

import "go.uber.org/zap"

// EstimateTokens approximates the token count of text at four bytes per
// token. This is a character-budget heuristic, not a real tokenizer.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// OptimizePrompt trims prompt to fit within maxTokens, applying the
// configured token buffer as a safety margin. A prompt already within budget
// is returned unchanged. Truncation is a raw byte cut and may split a word
// or a multibyte sequence; the approximation is accepted behavior.
func (g *Governor) OptimizePrompt(prompt string, maxTokens int) string {
	estimated := EstimateTokens(prompt)
	if estimated <= maxTokens {
		return prompt
	}

	ratio := float64(maxTokens) / float64(estimated)
	truncateLength := int(float64(len(prompt)) * ratio * g.cfg.TokenBuffer)
	if truncateLength < 0 {
		truncateLength = 0
	}

	g.logger.Debug("prompt truncated to fit token budget",
		zap.Int("estimated_tokens", estimated),
		zap.Int("max_tokens", maxTokens),
		zap.Int("original_length", len(prompt)),
		zap.Int("truncated_length", truncateLength),
	)

	return prompt[:truncateLength]
}
