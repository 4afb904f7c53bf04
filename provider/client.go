// Package provider defines the contract for calling a hosted LLM.
//
// Everything above this package (prompt building, JSON extraction, schema
// validation) talks to a model only through Client. Bindings such as the
// openai package implement Client and register a factory under a name so
// callers can pick a backend from configuration:
//
//	cfg := provider.FromEnv("deepseek")
//	client, err := provider.New(cfg.Provider, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Complete(ctx, provider.Request{Prompt: "Say hi"})
//
// # Available Providers
//
//   - "openai": OpenAI chat completions
//   - "deepseek": DeepSeek, via its OpenAI-compatible endpoint
//
// Import the providers package to register all of them at once.
//
// # Errors
//
// Every failure to obtain a reply (network, HTTP status, empty choices,
// cancellation) wraps ErrTransport, so callers can tell model-side failures
// from problems with the reply text itself.
package provider

import "context"

// Client sends one prompt to a model and returns its reply.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends a request and returns the full response.
	// The context controls cancellation and timeouts.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider name (e.g., "openai", "deepseek").
	Name() string
}
