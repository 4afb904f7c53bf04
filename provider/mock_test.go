package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_FixedResponse(t *testing.T) {
	m := NewMockClient(`{"a": 1}`)

	resp, err := m.Complete(context.Background(), Request{Prompt: "p", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, resp.Text)
	assert.Equal(t, "m", resp.Model)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, "mock", m.Name())

	require.NotNil(t, m.LastCall())
	assert.Equal(t, "p", m.LastCall().Prompt)
}

func TestMockClient_SequentialResponses(t *testing.T) {
	m := NewMockClient("").WithResponses("one", "two")
	ctx := context.Background()

	var got []string
	for i := 0; i < 3; i++ {
		resp, err := m.Complete(ctx, Request{})
		require.NoError(t, err)
		got = append(got, resp.Text)
	}
	assert.Equal(t, []string{"one", "two", "one"}, got)
	assert.Equal(t, 3, m.CallCount())

	m.Reset()
	assert.Equal(t, 0, m.CallCount())
	assert.Nil(t, m.LastCall())
}

func TestMockClient_Error(t *testing.T) {
	want := TransportError("mock", "complete", ErrUnavailable, nil, true)
	m := NewMockClient("").WithError(want)

	_, err := m.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, m.CallCount())
}

func TestMockClient_CompleteFunc(t *testing.T) {
	m := NewMockClient("ignored").WithName("custom").WithCompleteFunc(func(ctx context.Context, req Request) (*Response, error) {
		return &Response{Text: "echo: " + req.Prompt}, nil
	})

	resp, err := m.Complete(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resp.Text)
	assert.Equal(t, "custom", m.Name())
}

func TestMockClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockClient("x").Complete(ctx, Request{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, IsTransport(err))
}
