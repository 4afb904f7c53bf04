package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/promptuner/promptuner/metrics"
	"github.com/promptuner/promptuner/parser"
	"github.com/promptuner/promptuner/provider"
	"github.com/promptuner/promptuner/schema"
	"github.com/promptuner/promptuner/tokens"
)

// Config configures an Extractor.
type Config struct {
	// Model overrides the client's default model. Optional.
	Model string `json:"model" yaml:"model" toml:"model"`

	// SystemPrompt replaces DefaultSystemPrompt. Optional.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt" toml:"system_prompt"`

	// Temperature is sent with every call when set.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty"`

	// Logger receives per-call debug and failure logs. Default slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-" toml:"-"`

	// Metrics records outcomes. Default metrics.NoopCollector.
	Metrics metrics.Collector `json:"-" yaml:"-" toml:"-"`
}

// Result is a successful extraction.
type Result struct {
	// ID identifies the call in logs. Extract assigns a random ID; Parse
	// derives it from the text, so parsing the same text gives the same ID.
	ID uuid.UUID

	// Raw is the model's full reply.
	Raw string

	// JSON is the extracted object text, from the first '{' through its
	// matching '}'.
	JSON string

	// Value is the validated object, with scalars coerced to the schema's
	// types (see schema.Schema.Coerce).
	Value map[string]any

	// Usage is the token usage reported by the model. When the model reports
	// none it is estimated from the prompt and reply.
	Usage provider.TokenUsage
}

// Extractor runs extractions against one model client.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	client  provider.Client
	cfg     Config
	parser  *parser.Parser
	logger  *slog.Logger
	metrics metrics.Collector
}

// New creates an Extractor. The client is required.
func New(client provider.Client, cfg Config) (*Extractor, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopCollector()
	}

	return &Extractor{
		client:  client,
		cfg:     cfg,
		parser:  parser.NewParser(),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}, nil
}

// Option adjusts a single Extract call.
type Option func(*callOptions)

type callOptions struct {
	instructions string
	model        string
	temperature  *float64
}

// WithInstructions appends extra instructions to the prompt.
func WithInstructions(instructions string) Option {
	return func(o *callOptions) { o.instructions = instructions }
}

// WithModel overrides the model for one call.
func WithModel(model string) Option {
	return func(o *callOptions) { o.model = model }
}

// WithTemperature overrides the temperature for one call.
func WithTemperature(t float64) Option {
	return func(o *callOptions) { o.temperature = &t }
}

// Extract builds a prompt for query and s, asks the model once, and returns
// the validated object from its reply.
//
// An empty query or nil schema fails with ErrInvalidInput before the model
// is called.
func (e *Extractor) Extract(ctx context.Context, query string, s *schema.Schema, opts ...Option) (*Result, error) {
	o := callOptions{model: e.cfg.Model, temperature: e.cfg.Temperature}
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New()
	start := time.Now()
	log := e.logger.With(slog.String("request_id", id.String()))

	res, err := e.extract(ctx, id, query, s, o)

	e.metrics.RecordOperation(ctx, metrics.OpExtract, Code(err), time.Since(start))
	if err != nil {
		log.Warn("extraction failed",
			slog.String("stage", Stage(err)),
			slog.String("code", Code(err)),
			slog.Any("error", err),
		)
		return nil, err
	}

	log.Debug("extraction succeeded",
		slog.String("schema", s.Name),
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (e *Extractor) extract(ctx context.Context, id uuid.UUID, query string, s *schema.Schema, o callOptions) (*Result, error) {
	stageStart := time.Now()
	prompt, err := BuildPrompt(query, s, o.instructions)
	if err != nil {
		return nil, stageError(StagePrompt, err)
	}
	e.metrics.RecordStage(ctx, metrics.OpExtract, metrics.StagePrompt, time.Since(stageStart))

	stageStart = time.Now()
	resp, err := e.client.Complete(ctx, provider.Request{
		SystemPrompt: e.cfg.SystemPrompt,
		Prompt:       prompt,
		Model:        o.model,
		Temperature:  o.temperature,
	})
	e.metrics.RecordStage(ctx, metrics.OpExtract, metrics.StageModel, time.Since(stageStart))
	if err != nil {
		if !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		return nil, stageError(StageModel, err)
	}
	if resp == nil {
		return nil, stageError(StageModel, fmt.Errorf("%w: %w", ErrTransport, provider.ErrEmptyResponse))
	}
	usage := resp.Usage
	if usage.TotalTokens == 0 {
		usage = tokens.EstimateUsage(e.cfg.SystemPrompt+prompt, resp.Text)
	}
	e.metrics.RecordTokens(ctx, e.client.Name(), usage.InputTokens, usage.OutputTokens)

	e.logger.Debug("model replied",
		slog.String("request_id", id.String()),
		slog.String("provider", e.client.Name()),
		slog.String("model", resp.Model),
		slog.Int("reply_bytes", len(resp.Text)),
	)

	res, err := e.parse(ctx, metrics.OpExtract, resp.Text, s)
	if err != nil {
		return nil, err
	}
	res.ID = id
	res.Usage = usage
	return res, nil
}

// Parse runs only the extraction stage on text: locate the first balanced
// object, decode it and validate it against s. Parsing identical text twice
// gives identical results.
func (e *Extractor) Parse(text string, s *schema.Schema) (*Result, error) {
	if s == nil {
		return nil, stageError(StageValidate, fmt.Errorf("%w: schema is required", ErrInvalidInput))
	}
	start := time.Now()
	res, err := e.parse(context.Background(), metrics.OpParse, text, s)
	e.metrics.RecordOperation(context.Background(), metrics.OpParse, Code(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	res.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(text))
	return res, nil
}

// parse locates, decodes, coerces and validates the first object in text.
// Stage durations are recorded under op.
func (e *Extractor) parse(ctx context.Context, op, text string, s *schema.Schema) (*Result, error) {
	stageStart := time.Now()
	obj, err := e.parser.Decode(text)
	e.metrics.RecordStage(ctx, op, metrics.StageParse, time.Since(stageStart))
	if err != nil {
		return nil, stageError(StageParse, err)
	}

	stageStart = time.Now()
	value := s.Coerce(obj.Value)
	err = s.Validate(value)
	e.metrics.RecordStage(ctx, op, metrics.StageValidate, time.Since(stageStart))
	if err != nil {
		if errors.Is(err, schema.ErrInvalidSchema) {
			err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, stageError(StageValidate, err)
	}

	return &Result{Raw: text, JSON: obj.Text, Value: value}, nil
}
