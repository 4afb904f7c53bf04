// Package openai binds provider.Client to OpenAI-compatible chat completion
// APIs using the official openai-go SDK.
//
// Two providers are registered on import:
//
//   - "openai": api.openai.com, default model gpt-4o-mini
//   - "deepseek": api.deepseek.com, default model deepseek-chat
//
// The default model follows the endpoint rather than the provider name, so
// an "openai" client pointed at a DeepSeek base URL still defaults to
// deepseek-chat.
//
// Each Complete call is exactly one HTTP request. The SDK's own retry loop
// is disabled; failures surface immediately as errors wrapping
// provider.ErrTransport.
package openai
