package provider

import "time"

// Request is a single-turn completion call.
type Request struct {
	// SystemPrompt sets the system message that guides the model's behavior.
	// Empty falls back to the client's configured system prompt, if any.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Prompt is the user message.
	Prompt string `json:"prompt"`

	// Model overrides the client's configured model for this call.
	Model string `json:"model,omitempty"`

	// Temperature controls response randomness. Nil leaves the service default.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens limits the response length. 0 leaves the service default.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Float64 returns a pointer to v, for Request.Temperature.
func Float64(v float64) *float64 {
	return &v
}

// Response is the output of a completion call.
type Response struct {
	// Text is the text response from the model.
	Text string `json:"text"`

	// Model is the actual model used (may differ from requested).
	Model string `json:"model,omitempty"`

	// FinishReason indicates why the model stopped generating.
	// Common values: "stop", "length", "content_filter"
	FinishReason string `json:"finish_reason,omitempty"`

	// Usage tracks token consumption for this request.
	Usage TokenUsage `json:"usage"`

	// Duration is the time taken for the completion.
	Duration time.Duration `json:"duration"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}
