package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/promptuner/promptuner/provider"
)

// Provider names and defaults.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"

	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultDeepSeekModel = "deepseek-chat"

	DeepSeekBaseURL = "https://api.deepseek.com"

	opComplete = "complete"
)

// Config holds configuration for a chat completion client.
type Config struct {
	// Name is the provider name reported by Client.Name and used in errors.
	Name string

	APIKey  string
	BaseURL string // Empty uses the SDK default (api.openai.com)

	// Model is used for requests that do not set one. Empty picks a default
	// from BaseURL, see DefaultModel.
	Model string

	// SystemPrompt is used for requests that do not set one.
	SystemPrompt string

	// Timeout bounds each HTTP request. 0 relies on the caller's context.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client (tests).
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client implements provider.Client over the chat completions endpoint.
type Client struct {
	name         string
	model        string
	systemPrompt string
	logger       *slog.Logger
	client       oai.Client
}

// DefaultModel returns the model used when none is configured:
// deepseek-chat for DeepSeek endpoints, gpt-4o-mini otherwise.
func DefaultModel(baseURL string) string {
	if strings.Contains(strings.ToLower(baseURL), "deepseek") {
		return DefaultDeepSeekModel
	}
	return DefaultOpenAIModel
}

// NewClient creates a chat completion client. An API key is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = ProviderOpenAI
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, provider.NewError(cfg.Name, "new", provider.ErrCredentialsNotFound, false)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.BaseURL)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		name:         cfg.Name,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		logger:       cfg.Logger,
		client:       oai.NewClient(opts...),
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// Model returns the configured default model.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a system message (when set) and the prompt as a user
// message, and returns the first choice.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}
	system := req.SystemPrompt
	if system == "" {
		system = c.systemPrompt
	}

	var messages []oai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, oai.SystemMessage(system))
	}
	messages = append(messages, oai.UserMessage(req.Prompt))

	params := oai.ChatCompletionNewParams{
		Model:    oai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature != nil {
		params.Temperature = oai.Float(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = oai.Int(int64(req.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		mapped := c.mapError(ctx, err)
		c.logger.Warn("chat completion failed",
			slog.String("provider", c.name),
			slog.String("model", model),
			slog.Any("error", mapped),
		)
		return nil, mapped
	}
	if completion == nil || len(completion.Choices) == 0 {
		return nil, provider.TransportError(c.name, opComplete, provider.ErrEmptyResponse, nil, false)
	}

	choice := completion.Choices[0]
	resp := &provider.Response{
		Text:         choice.Message.Content,
		Model:        completion.Model,
		FinishReason: string(choice.FinishReason),
		Usage: provider.TokenUsage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
		Duration: time.Since(start),
	}

	c.logger.Debug("chat completion",
		slog.String("provider", c.name),
		slog.String("model", resp.Model),
		slog.String("finish_reason", resp.FinishReason),
		slog.Int("total_tokens", resp.Usage.TotalTokens),
		slog.Duration("duration", resp.Duration),
	)
	return resp, nil
}

// mapError classifies an SDK error. Every result wraps provider.ErrTransport.
func (c *Client) mapError(ctx context.Context, err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		cause := fmt.Errorf("status %d", apiErr.StatusCode)
		if apiErr.Message != "" {
			cause = fmt.Errorf("status %d: %s", apiErr.StatusCode, apiErr.Message)
		}
		kind, retryable := classifyStatus(apiErr.StatusCode)
		return provider.TransportError(c.name, opComplete, kind, cause, retryable)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return provider.TransportError(c.name, opComplete, provider.ErrTimeout, err, true)
	case errors.Is(err, context.Canceled):
		return provider.TransportError(c.name, opComplete, nil, err, false)
	}
	return provider.TransportError(c.name, opComplete, provider.ErrUnavailable, err, true)
}

func classifyStatus(status int) (kind error, retryable bool) {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return provider.ErrCredentialsInvalid, false
	case status == http.StatusTooManyRequests:
		return provider.ErrRateLimited, true
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return provider.ErrTimeout, true
	case status >= 500:
		return provider.ErrUnavailable, true
	default:
		return provider.ErrInvalidRequest, false
	}
}

var _ provider.Client = (*Client)(nil)
