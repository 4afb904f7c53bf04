package extract

import (
	"errors"
	"fmt"

	"github.com/promptuner/promptuner/parser"
	"github.com/promptuner/promptuner/provider"
	"github.com/promptuner/promptuner/schema"
)

// Error taxonomy. The sentinels of the parser, schema and provider packages
// are re-exported so callers only need this package.
var (
	// ErrInvalidInput indicates an empty query or a missing or malformed
	// schema. The model is never called.
	ErrInvalidInput = errors.New("invalid input")

	ErrNoJSONFound      = parser.ErrNoJSONFound
	ErrUnbalancedBraces = parser.ErrUnbalancedBraces
	ErrMalformedJSON    = parser.ErrMalformedJSON
	ErrSchemaValidation = schema.ErrValidation
	ErrTransport        = provider.ErrTransport
)

// Stage names where a call can fail.
const (
	StagePrompt   = "prompt"
	StageModel    = "model"
	StageParse    = "parse"
	StageValidate = "validate"
	StageDecode   = "decode"
)

// Error codes returned by Code.
const (
	CodeOK                     = "ok"
	CodeInvalidInput           = "invalid_input"
	CodeNoJSONFound            = "no_json_found"
	CodeUnbalancedBraces       = "unbalanced_braces"
	CodeMalformedJSON          = "malformed_json"
	CodeSchemaValidationFailed = "schema_validation_failed"
	CodeTransportError         = "transport_error"
	CodeUnknown                = "unknown"
)

// Error records the stage at which a call failed.
type Error struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) *Error {
	return &Error{Stage: stage, Err: err}
}

// Stage returns the failing stage of err, or "" if err is not an *Error.
func Stage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// Code maps err to its taxonomy name, e.g. "no_json_found". A nil error is
// "ok".
func Code(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrNoJSONFound):
		return CodeNoJSONFound
	case errors.Is(err, ErrUnbalancedBraces):
		return CodeUnbalancedBraces
	case errors.Is(err, ErrMalformedJSON):
		return CodeMalformedJSON
	case errors.Is(err, ErrSchemaValidation):
		return CodeSchemaValidationFailed
	case errors.Is(err, ErrTransport):
		return CodeTransportError
	default:
		return CodeUnknown
	}
}
