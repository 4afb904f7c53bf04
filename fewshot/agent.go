package fewshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promptuner/promptuner/extract"
	"github.com/promptuner/promptuner/metrics"
	"github.com/promptuner/promptuner/parser"
	"github.com/promptuner/promptuner/provider"
	"github.com/promptuner/promptuner/schema"
	"github.com/promptuner/promptuner/template"
	"github.com/promptuner/promptuner/tokens"
)

// SystemPrompt opens every conversation.
const SystemPrompt = "You are an AI assistant that responds with structured JSON output."

const promptText = `{{#each examples}}Human: {{.Input}}
AI: {{.Output}}

{{/each}}Human: {{input}}

{{instructions}}`

const instructionsText = "The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n" +
	"Here is the output schema:\n```\n%s\n```"

// Config configures an Agent.
type Config struct {
	// Model overrides the client's default model. Optional.
	Model string `json:"model" yaml:"model" toml:"model"`

	// Temperature defaults to 0.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty"`

	// Examples replaces DefaultExamples when non-empty.
	Examples []Example `json:"examples,omitempty" yaml:"examples,omitempty" toml:"examples,omitempty"`

	Logger  *slog.Logger      `json:"-" yaml:"-" toml:"-"`
	Metrics metrics.Collector `json:"-" yaml:"-" toml:"-"`
}

// Agent asks the model for a Decision.
// It holds no per-call state and is safe for concurrent use.
type Agent struct {
	client       provider.Client
	cfg          Config
	schema       *schema.Schema
	instructions string
	prompt       *template.Template
	parser       *parser.Parser
	logger       *slog.Logger
	metrics      metrics.Collector
}

// New creates an Agent. Every example output must itself be a valid
// Decision.
func New(client provider.Client, cfg Config) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is required", extract.ErrInvalidInput)
	}
	if cfg.Temperature == nil {
		cfg.Temperature = provider.Float64(0)
	}
	if len(cfg.Examples) == 0 {
		cfg.Examples = DefaultExamples()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopCollector()
	}

	s, err := extract.SchemaFor[Decision]()
	if err != nil {
		return nil, err
	}
	doc, err := s.MarshalJSONSchema()
	if err != nil {
		return nil, err
	}
	tmpl, err := template.NewEngine().Compile("fewshot", promptText)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		client:       client,
		cfg:          cfg,
		schema:       s,
		instructions: fmt.Sprintf(instructionsText, doc),
		prompt:       tmpl,
		parser:       parser.NewParser(),
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}

	for i, ex := range cfg.Examples {
		if strings.TrimSpace(ex.Input) == "" {
			return nil, fmt.Errorf("%w: example %d has no input", extract.ErrInvalidInput, i)
		}
		if _, err := a.parse(context.Background(), ex.Output, metrics.NewNoopCollector()); err != nil {
			return nil, fmt.Errorf("%w: example %d: %w", extract.ErrInvalidInput, i, err)
		}
	}
	return a, nil
}

// Examples returns the examples shown to the model.
func (a *Agent) Examples() []Example {
	out := make([]Example, len(a.cfg.Examples))
	copy(out, a.cfg.Examples)
	return out
}

// Schema returns the schema replies are validated against.
func (a *Agent) Schema() *schema.Schema {
	return a.schema
}

// Prompt renders the user message for input. SystemPrompt is sent
// separately as the system message.
func (a *Agent) Prompt(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("%w: input must be a non-empty string", extract.ErrInvalidInput)
	}
	return a.prompt.Execute(map[string]any{
		"examples":     a.cfg.Examples,
		"input":        input,
		"instructions": a.instructions,
	})
}

// Process asks the model once and returns the validated Decision.
func (a *Agent) Process(ctx context.Context, input string) (*Decision, error) {
	start := time.Now()
	log := a.logger.With(slog.String("request_id", uuid.NewString()))

	d, err := a.process(ctx, input)

	a.metrics.RecordOperation(ctx, metrics.OpFewShot, extract.Code(err), time.Since(start))
	if err != nil {
		log.Warn("decision failed",
			slog.String("stage", extract.Stage(err)),
			slog.String("code", extract.Code(err)),
			slog.Any("error", err),
		)
		return nil, err
	}
	log.Debug("decision",
		slog.String("action", d.Action),
		slog.Float64("confidence", d.Confidence),
		slog.Duration("duration", time.Since(start)),
	)
	return d, nil
}

func (a *Agent) process(ctx context.Context, input string) (*Decision, error) {
	stageStart := time.Now()
	prompt, err := a.Prompt(input)
	if err != nil {
		return nil, &extract.Error{Stage: extract.StagePrompt, Err: err}
	}
	a.metrics.RecordStage(ctx, metrics.OpFewShot, metrics.StagePrompt, time.Since(stageStart))

	stageStart = time.Now()
	resp, err := a.client.Complete(ctx, provider.Request{
		SystemPrompt: SystemPrompt,
		Prompt:       prompt,
		Model:        a.cfg.Model,
		Temperature:  a.cfg.Temperature,
	})
	a.metrics.RecordStage(ctx, metrics.OpFewShot, metrics.StageModel, time.Since(stageStart))
	if err != nil {
		if !errors.Is(err, provider.ErrTransport) {
			err = fmt.Errorf("%w: %w", provider.ErrTransport, err)
		}
		return nil, &extract.Error{Stage: extract.StageModel, Err: err}
	}
	if resp == nil {
		return nil, &extract.Error{Stage: extract.StageModel, Err: fmt.Errorf("%w: %w", provider.ErrTransport, provider.ErrEmptyResponse)}
	}
	usage := resp.Usage
	if usage.TotalTokens == 0 {
		usage = tokens.EstimateUsage(SystemPrompt+prompt, resp.Text)
	}
	a.metrics.RecordTokens(ctx, a.client.Name(), usage.InputTokens, usage.OutputTokens)

	return a.parse(ctx, resp.Text, a.metrics)
}

// parse extracts a Decision from reply text, preferring a fenced json block.
// Scalars are coerced to the schema's types before validation, and the
// Decision is decoded from the coerced value.
func (a *Agent) parse(ctx context.Context, text string, collector metrics.Collector) (*Decision, error) {
	stageStart := time.Now()
	obj, err := a.parser.DecodeFenced(text)
	collector.RecordStage(ctx, metrics.OpFewShot, metrics.StageParse, time.Since(stageStart))
	if err != nil {
		return nil, &extract.Error{Stage: extract.StageParse, Err: err}
	}

	stageStart = time.Now()
	value := a.schema.Coerce(obj.Value)
	err = a.schema.Validate(value)
	collector.RecordStage(ctx, metrics.OpFewShot, metrics.StageValidate, time.Since(stageStart))
	if err != nil {
		return nil, &extract.Error{Stage: extract.StageValidate, Err: err}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, &extract.Error{Stage: extract.StageDecode, Err: fmt.Errorf("%w: %w", parser.ErrMalformedJSON, err)}
	}
	var d Decision
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, &extract.Error{Stage: extract.StageDecode, Err: fmt.Errorf("%w: %w", parser.ErrMalformedJSON, err)}
	}
	return &d, nil
}
