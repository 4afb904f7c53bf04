package fewshot

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptuner/promptuner/extract"
	"github.com/promptuner/promptuner/metrics"
	"github.com/promptuner/promptuner/provider"
	"github.com/promptuner/promptuner/schema"
)

func newAgent(t *testing.T, client provider.Client, cfg Config) *Agent {
	t.Helper()
	a, err := New(client, cfg)
	require.NoError(t, err)
	return a
}

func TestNew_Defaults(t *testing.T) {
	a := newAgent(t, provider.NewMockClient(""), Config{})

	assert.Equal(t, DefaultExamples(), a.Examples())
	assert.Equal(t, []string{"action", "confidence", "reasoning"}, a.Schema().Required())

	action, ok := a.Schema().Field("action")
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"search", "explain", "recommend"}, action.Enum)
}

func TestNew_RejectsInvalidExamples(t *testing.T) {
	tests := []struct {
		name     string
		examples []Example
	}{
		{name: "unknown action", examples: []Example{{Input: "hi", Output: `{"action": "dance", "reasoning": "r", "confidence": 0.5}`}}},
		{name: "confidence out of range", examples: []Example{{Input: "hi", Output: `{"action": "search", "reasoning": "r", "confidence": 1.5}`}}},
		{name: "not json", examples: []Example{{Input: "hi", Output: "search"}}},
		{name: "empty input", examples: []Example{{Input: " ", Output: `{"action": "search", "reasoning": "r", "confidence": 0.5}`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(provider.NewMockClient(""), Config{Examples: tt.examples})
			assert.ErrorIs(t, err, extract.ErrInvalidInput)
		})
	}

	_, err := New(nil, Config{})
	assert.ErrorIs(t, err, extract.ErrInvalidInput)
}

func TestPrompt_Layout(t *testing.T) {
	a := newAgent(t, provider.NewMockClient(""), Config{})

	got, err := a.Prompt("How do transformers work?")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "Human: What is machine learning?\nAI: {\"action\": \"explain\""))
	for _, ex := range DefaultExamples() {
		assert.Contains(t, got, "Human: "+ex.Input+"\nAI: "+ex.Output+"\n\n")
	}
	assert.Contains(t, got, "Human: How do transformers work?\n\n")
	assert.Contains(t, got, "The output should be formatted as a JSON instance that conforms to the JSON schema below.")
	assert.Contains(t, got, `"enum": [`)

	// Examples appear in order, followed by the new input.
	last := strings.Index(got, "Best IDE for Python?")
	assert.Less(t, strings.Index(got, "Find me Python tutorials"), last)
	assert.Less(t, last, strings.Index(got, "How do transformers work?"))
}

func TestPrompt_CustomExamples(t *testing.T) {
	examples := []Example{
		NewExample("Show me cats", Decision{Action: ActionSearch, Reasoning: "Wants pictures", Confidence: 0.6}),
	}
	a := newAgent(t, provider.NewMockClient(""), Config{Examples: examples})

	got, err := a.Prompt("q")
	require.NoError(t, err)
	assert.Contains(t, got, `Human: Show me cats`+"\n"+`AI: {"action":"search","reasoning":"Wants pictures","confidence":0.6}`)
	assert.NotContains(t, got, "What is machine learning?")
}

func TestProcess_Success(t *testing.T) {
	mock := provider.NewMockClient(`{"action": "explain", "reasoning": "Asks how something works", "confidence": 0.85}`)
	a := newAgent(t, mock, Config{Model: "deepseek-chat"})

	d, err := a.Process(context.Background(), "How do transformers work?")
	require.NoError(t, err)
	assert.Equal(t, &Decision{Action: ActionExplain, Reasoning: "Asks how something works", Confidence: 0.85}, d)

	require.Equal(t, 1, mock.CallCount())
	call := mock.LastCall()
	assert.Equal(t, SystemPrompt, call.SystemPrompt)
	assert.Equal(t, "deepseek-chat", call.Model)
	require.NotNil(t, call.Temperature)
	assert.Equal(t, 0.0, *call.Temperature)
	assert.Contains(t, call.Prompt, "Human: How do transformers work?")
}

func TestProcess_PrefersFencedBlock(t *testing.T) {
	reply := "Thinking about {this}.\n```json\n{\"action\": \"recommend\", \"reasoning\": \"Wants a pick\", \"confidence\": 0.7}\n```"
	a := newAgent(t, provider.NewMockClient(reply), Config{})

	d, err := a.Process(context.Background(), "Best laptop?")
	require.NoError(t, err)
	assert.Equal(t, ActionRecommend, d.Action)
}

func TestProcess_Failures(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr error
		stage   string
	}{
		{name: "no json", reply: "I would search for that.", wantErr: extract.ErrNoJSONFound, stage: extract.StageParse},
		{name: "unknown action", reply: `{"action": "dance", "reasoning": "r", "confidence": 0.5}`, wantErr: extract.ErrSchemaValidation, stage: extract.StageValidate},
		{name: "confidence above one", reply: `{"action": "search", "reasoning": "r", "confidence": 1.2}`, wantErr: extract.ErrSchemaValidation, stage: extract.StageValidate},
		{name: "missing reasoning", reply: `{"action": "search", "confidence": 0.2}`, wantErr: extract.ErrSchemaValidation, stage: extract.StageValidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAgent(t, provider.NewMockClient(tt.reply), Config{})

			d, err := a.Process(context.Background(), "q")
			require.Error(t, err)
			assert.Nil(t, d)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.stage, extract.Stage(err))
		})
	}
}

func TestProcess_ValidationFieldPath(t *testing.T) {
	a := newAgent(t, provider.NewMockClient(`{"action": "search", "reasoning": "r", "confidence": 3}`), Config{})

	_, err := a.Process(context.Background(), "q")
	fields := schema.FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "confidence", fields[0].Path)
}

func TestProcess_EmptyInput(t *testing.T) {
	mock := provider.NewMockClient(`{}`)
	a := newAgent(t, mock, Config{})

	_, err := a.Process(context.Background(), "  ")
	assert.ErrorIs(t, err, extract.ErrInvalidInput)
	assert.Equal(t, extract.StagePrompt, extract.Stage(err))
	assert.Equal(t, 0, mock.CallCount())
}

func TestProcess_TransportError(t *testing.T) {
	mock := provider.NewMockClient("").WithError(provider.ErrRateLimited)
	a := newAgent(t, mock, Config{})

	_, err := a.Process(context.Background(), "q")
	assert.ErrorIs(t, err, extract.ErrTransport)
	assert.ErrorIs(t, err, provider.ErrRateLimited)
	assert.Equal(t, extract.CodeTransportError, extract.Code(err))
}

func TestProcess_Concurrent(t *testing.T) {
	mock := provider.NewMockClient(`{"action": "search", "reasoning": "r", "confidence": 0.5}`)
	a := newAgent(t, mock, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := a.Process(context.Background(), "find docs")
			assert.NoError(t, err)
			assert.Equal(t, ActionSearch, d.Action)
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, mock.CallCount())
}

func TestProcess_Metrics(t *testing.T) {
	collector, err := metrics.NewCollector(nil)
	require.NoError(t, err)

	mock := provider.NewMockClient("").WithResponses(`{"action": "search", "reasoning": "r", "confidence": 0.5}`)
	a := newAgent(t, mock, Config{Metrics: collector})

	_, err = a.Process(context.Background(), "q")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(collector.Registry(), "promptuner_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProcess_CoercesScalars(t *testing.T) {
	a := newAgent(t, provider.NewMockClient(`{"action": "explain", "reasoning": "Definition", "confidence": "0.9"}`), Config{})

	d, err := a.Process(context.Background(), "What is Go?")
	require.NoError(t, err)
	assert.Equal(t, 0.9, d.Confidence)

	_, err = New(provider.NewMockClient(""), Config{Examples: []Example{
		{Input: "hi", Output: `{"action": "search", "reasoning": "r", "confidence": "1"}`},
	}})
	assert.NoError(t, err)
}

func TestProcess_StageMetrics(t *testing.T) {
	collector, err := metrics.NewCollector(nil)
	require.NoError(t, err)
	a := newAgent(t, provider.NewMockClient(`{"action": "search", "reasoning": "r", "confidence": 0.5}`), Config{Metrics: collector})

	_, err = a.Process(context.Background(), "q")
	require.NoError(t, err)

	families, err := collector.Registry().Gather()
	require.NoError(t, err)
	stages := make(map[string]string)
	for _, mf := range families {
		if mf.GetName() != "promptuner_stage_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			stages[labels["stage"]] = labels["operation"]
		}
	}
	assert.Equal(t, map[string]string{
		metrics.StagePrompt:   metrics.OpFewShot,
		metrics.StageModel:    metrics.OpFewShot,
		metrics.StageParse:    metrics.OpFewShot,
		metrics.StageValidate: metrics.OpFewShot,
	}, stages)
}
