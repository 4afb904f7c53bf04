package promptuner

import (
	"os"

	"github.com/promptuner/promptuner/extract"
	"github.com/promptuner/promptuner/fewshot"
	"github.com/promptuner/promptuner/openai"
	"github.com/promptuner/promptuner/provider"
	_ "github.com/promptuner/promptuner/providers"
)

// Environment variables that select the DeepSeek endpoint.
const (
	EnvDeepSeekAPIKey  = "DEEPSEEK_API_KEY"
	EnvDeepSeekBaseURL = "DEEPSEEK_BASE_URL"
)

// DefaultProvider returns the provider name chosen by the environment:
// PROMPTUNER_PROVIDER if set, else "deepseek" when DEEPSEEK_API_KEY or
// DEEPSEEK_BASE_URL is set, else "openai".
func DefaultProvider() string {
	if v := os.Getenv(provider.EnvProvider); v != "" {
		return v
	}
	if os.Getenv(EnvDeepSeekAPIKey) != "" || os.Getenv(EnvDeepSeekBaseURL) != "" {
		return openai.ProviderDeepSeek
	}
	return openai.ProviderOpenAI
}

// NewClientFromEnv creates a model client for DefaultProvider.
// When no model is configured, DeepSeek endpoints get deepseek-chat and
// anything else gets gpt-4o-mini.
func NewClientFromEnv() (provider.Client, error) {
	cfg := provider.FromEnv(DefaultProvider())
	if cfg.Model == "" {
		baseURL := cfg.BaseURL
		if baseURL == "" && cfg.Provider == openai.ProviderDeepSeek {
			baseURL = openai.DeepSeekBaseURL
		}
		cfg.Model = openai.DefaultModel(baseURL)
	}
	return provider.New(cfg.Provider, cfg)
}

// NewExtractorFromEnv creates an Extractor over NewClientFromEnv.
func NewExtractorFromEnv(cfg extract.Config) (*extract.Extractor, error) {
	client, err := NewClientFromEnv()
	if err != nil {
		return nil, err
	}
	return extract.New(client, cfg)
}

// NewAgentFromEnv creates a few-shot Agent over NewClientFromEnv.
func NewAgentFromEnv(cfg fewshot.Config) (*fewshot.Agent, error) {
	client, err := NewClientFromEnv()
	if err != nil {
		return nil, err
	}
	return fewshot.New(client, cfg)
}
