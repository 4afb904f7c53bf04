package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds configuration for creating an LLM provider client.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "openai", "deepseek"
	Provider string `json:"provider" yaml:"provider" toml:"provider" mapstructure:"provider"`

	// Model is the default model for requests that do not set one.
	// Empty lets the binding choose (see the openai package).
	Model string `json:"model" yaml:"model" toml:"model" mapstructure:"model"`

	// APIKey authenticates against the service.
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key" mapstructure:"api_key"`

	// BaseURL overrides the service endpoint. Empty uses the binding default.
	BaseURL string `json:"base_url" yaml:"base_url" toml:"base_url" mapstructure:"base_url"`

	// SystemPrompt is used for requests that do not set their own.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt" toml:"system_prompt" mapstructure:"system_prompt"`

	// Timeout is the maximum duration for a completion request.
	// 0 means no client-side timeout beyond the caller's context.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
// Provider must still be set before use.
func DefaultConfig() Config {
	return Config{
		Timeout: 2 * time.Minute,
	}
}

// Environment variables read by LoadFromEnv. Per-provider credentials use
// the provider name upper-cased, e.g. DEEPSEEK_API_KEY.
const (
	EnvProvider      = "PROMPTUNER_PROVIDER"
	EnvModel         = "PROMPTUNER_MODEL"
	EnvTimeout       = "PROMPTUNER_TIMEOUT"
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	envAPIKeySuffix  = "_API_KEY"
	envBaseURLSuffix = "_BASE_URL"
)

// LoadFromEnv populates config fields from environment variables.
// Set variables take precedence over existing values. The environment is
// only read.
//
// Supported variables:
//   - PROMPTUNER_PROVIDER: Provider name
//   - PROMPTUNER_MODEL: Model name
//   - PROMPTUNER_TIMEOUT: Timeout duration (e.g., "30s")
//   - <PROVIDER>_API_KEY: API key, falling back to OPENAI_API_KEY
//   - <PROVIDER>_BASE_URL: Endpoint override
func (c *Config) LoadFromEnv() {
	if v := os.Getenv(EnvProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		} else if secs, err := strconv.Atoi(v); err == nil {
			c.Timeout = time.Duration(secs) * time.Second
		}
	}

	if c.Provider == "" {
		return
	}
	prefix := envPrefix(c.Provider)
	if v := os.Getenv(prefix + envAPIKeySuffix); v != "" {
		c.APIKey = v
	} else if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if v := os.Getenv(prefix + envBaseURLSuffix); v != "" {
		c.BaseURL = v
	}
}

// FromEnv creates a Config for the named provider from environment variables
// with defaults. PROMPTUNER_PROVIDER, when set, wins over name.
func FromEnv(name string) Config {
	cfg := DefaultConfig()
	cfg.Provider = name
	cfg.LoadFromEnv()
	return cfg
}

// LoadConfigFile reads a Config from a YAML (.yaml, .yml) or TOML (.toml)
// file. Fields missing from the file keep their DefaultConfig values.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, filepath.Ext(path))
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("%w: provider is required", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be >= 0, got %v", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithAPIKey returns a copy of the config with the specified API key.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// WithBaseURL returns a copy of the config with the specified endpoint.
func (c Config) WithBaseURL(url string) Config {
	c.BaseURL = url
	return c
}

// WithTimeout returns a copy of the config with the specified timeout.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}

func envPrefix(provider string) string {
	return strings.ToUpper(strings.ReplaceAll(provider, "-", "_"))
}
