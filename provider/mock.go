package provider

import (
	"context"
	"sync"
	"time"
)

// MockClient is a test double for Client.
// It supports fixed responses, sequential responses, and custom handlers.
type MockClient struct {
	mu           sync.Mutex
	name         string
	responses    []string
	responseIdx  int
	err          error
	completeFunc func(ctx context.Context, req Request) (*Response, error)

	// Calls tracks all requests for assertions.
	Calls []Request
}

// NewMockClient creates a mock that returns a fixed response.
func NewMockClient(response string) *MockClient {
	return &MockClient{name: "mock", responses: []string{response}}
}

// WithName sets the value returned by Name.
func (m *MockClient) WithName(name string) *MockClient {
	m.name = name
	return m
}

// WithResponses configures sequential responses.
// Each call to Complete returns the next response in the list.
// Cycles back to the beginning after exhausting all responses.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.responses = responses
	return m
}

// WithError configures the mock to always return an error.
func (m *MockClient) WithError(err error) *MockClient {
	m.err = err
	return m
}

// WithCompleteFunc sets a custom handler for Complete calls.
// This takes precedence over fixed responses.
func (m *MockClient) WithCompleteFunc(fn func(ctx context.Context, req Request) (*Response, error)) *MockClient {
	m.completeFunc = fn
	return m
}

// Name implements Client.
func (m *MockClient) Name() string {
	return m.name
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	fn := m.completeFunc
	err := m.err
	response := ""
	if len(m.responses) > 0 {
		response = m.responses[m.responseIdx%len(m.responses)]
		m.responseIdx++
	}
	m.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, TransportError(m.name, "complete", nil, ctxErr, false)
	}
	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	return &Response{
		Text:         response,
		Model:        req.Model,
		FinishReason: "stop",
		Usage:        TokenUsage{InputTokens: 10, OutputTokens: len(response) / 4, TotalTokens: 10 + len(response)/4},
		Duration:     10 * time.Millisecond,
	}, nil
}

// Reset clears the call history and response index.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.responseIdx = 0
}

// CallCount returns the number of times Complete was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or nil if no calls made.
func (m *MockClient) LastCall() *Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	req := m.Calls[len(m.Calls)-1]
	return &req
}
