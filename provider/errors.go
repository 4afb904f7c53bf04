package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrTransport indicates the model could not be reached or returned no
	// usable reply. Every error from Client.Complete wraps it.
	ErrTransport = errors.New("transport error")

	// ErrUnavailable indicates the LLM service is unavailable.
	ErrUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the request was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrCredentialsNotFound indicates credentials are missing.
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrCredentialsInvalid indicates the service rejected the credentials.
	ErrCredentialsInvalid = errors.New("credentials invalid")

	// ErrEmptyResponse indicates the service replied without any choices.
	ErrEmptyResponse = errors.New("empty response")

	// ErrInvalidConfig indicates a Config failed validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// Error wraps provider errors with context.
type Error struct {
	Provider  string // Provider name ("openai", "deepseek", etc.)
	Op        string // Operation that failed ("complete")
	Err       error  // Underlying error
	Retryable bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// TransportError creates a provider error that wraps ErrTransport as well as
// kind (one of the sentinels above, or nil) and cause.
func TransportError(provider, op string, kind, cause error, retryable bool) *Error {
	var err error
	switch {
	case kind != nil && cause != nil:
		err = fmt.Errorf("%w: %w: %w", ErrTransport, kind, cause)
	case kind != nil:
		err = fmt.Errorf("%w: %w", ErrTransport, kind)
	case cause != nil:
		err = fmt.Errorf("%w: %w", ErrTransport, cause)
	default:
		err = ErrTransport
	}
	return NewError(provider, op, err, retryable)
}

// IsRetryable checks if an error is likely transient and worth retrying.
// Nothing in this module retries; the flag is informational for callers.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsTransport checks if an error came from reaching the model rather than
// from interpreting its reply.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrCredentialsNotFound) ||
		errors.Is(err, ErrCredentialsInvalid)
}
