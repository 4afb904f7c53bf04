package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptuner/promptuner/provider"
)

func TestNewEstimatingCounterWithRatio(t *testing.T) {
	assert.Equal(t, DefaultCharsPerToken, NewEstimatingCounter().CharsPerToken)
	assert.Equal(t, 3.0, NewEstimatingCounterWithRatio(3).CharsPerToken)
	assert.Equal(t, DefaultCharsPerToken, NewEstimatingCounterWithRatio(0).CharsPerToken)
	assert.Equal(t, DefaultCharsPerToken, NewEstimatingCounterWithRatio(-1).CharsPerToken)
}

func TestEstimatingCounter_Count(t *testing.T) {
	c := NewEstimatingCounter()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty string", text: "", want: 0},
		{name: "single character", text: "a", want: 0},
		{name: "four characters", text: "test", want: 1},
		{name: "rounds up", text: "Hello World", want: 3},
		{name: "runes not bytes", text: "héllo wörld", want: 3},
		{name: "json", text: `{"a": 1, "b": "x"}`, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Count(tt.text))
		})
	}

	assert.Equal(t, 4, NewEstimatingCounterWithRatio(3).Count("Hello World"))
}

func TestEstimatingCounter_FitsInLimit(t *testing.T) {
	c := NewEstimatingCounter()

	assert.True(t, c.FitsInLimit("", 1))
	assert.True(t, c.FitsInLimit("test", 1))
	assert.False(t, c.FitsInLimit("test test test test test", 3))
	assert.False(t, c.FitsInLimit("hello", 0))
}

func TestEstimateTokens_LargeText(t *testing.T) {
	assert.Equal(t, 3000, EstimateTokens(strings.Repeat("Hello World ", 1000)))
}

func TestEstimateUsage(t *testing.T) {
	got := EstimateUsage(strings.Repeat("x", 40), "test")
	assert.Equal(t, provider.TokenUsage{InputTokens: 10, OutputTokens: 1, TotalTokens: 11}, got)

	assert.Equal(t, provider.TokenUsage{}, EstimateUsage("", ""))
}

func TestGetModelLimit(t *testing.T) {
	assert.Equal(t, 128000, GetModelLimit("gpt-4o-mini"))
	assert.Equal(t, 64000, GetModelLimit("deepseek-chat"))
	assert.Equal(t, 100000, GetModelLimit("unknown"))
	assert.Equal(t, 100000, GetModelLimit(""))

	for model, limit := range ModelLimits {
		assert.Positive(t, limit, model)
	}
}

func BenchmarkEstimateTokens(b *testing.B) {
	text := strings.Repeat("Hello World ", 100)

	b.ResetTimer()
	for range b.N {
		EstimateTokens(text)
	}
}
