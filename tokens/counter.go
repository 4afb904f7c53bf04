package tokens

import (
	"unicode/utf8"

	"github.com/promptuner/promptuner/provider"
)

// DefaultCharsPerToken is the default character-to-token ratio.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter uses a character-to-token ratio for estimation.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	CharsPerToken float64
}

// NewEstimatingCounter creates a token counter with default settings.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// NewEstimatingCounterWithRatio creates a token counter with a custom ratio.
// If charsPerToken is <= 0, the default ratio is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{CharsPerToken: charsPerToken}
}

// Count estimates the number of tokens in text, counting runes rather than
// bytes and rounding to the nearest integer.
func (c *EstimatingCounter) Count(text string) int {
	runeCount := utf8.RuneCountInString(text)
	return int(float64(runeCount)/c.CharsPerToken + 0.5)
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}

// EstimateUsage returns an estimated TokenUsage for a call that sent input
// and received output.
func EstimateUsage(input, output string) provider.TokenUsage {
	in := EstimateTokens(input)
	out := EstimateTokens(output)
	return provider.TokenUsage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// ModelLimits contains context window sizes for the supported models.
var ModelLimits = map[string]int{
	"gpt-4o":        128000,
	"gpt-4o-mini":   128000,
	"deepseek-chat": 64000,

	// Default fallback
	"default": 100000,
}

// GetModelLimit returns the token limit for a model, or a default if not found.
func GetModelLimit(model string) int {
	if limit, ok := ModelLimits[model]; ok {
		return limit
	}
	return ModelLimits["default"]
}
