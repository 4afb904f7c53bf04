package openai

import (
	"github.com/promptuner/promptuner/provider"
)

func init() {
	provider.Register(ProviderOpenAI, newFromProviderConfig)
	provider.Register(ProviderDeepSeek, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientCfg := Config{
		Name:         cfg.Provider,
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		Model:        cfg.Model,
		SystemPrompt: cfg.SystemPrompt,
		Timeout:      cfg.Timeout,
	}
	if cfg.Provider == ProviderDeepSeek && clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DeepSeekBaseURL
	}

	return NewClient(clientCfg)
}
