package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for schema operations.
var (
	// ErrInvalidSchema indicates a schema description is malformed.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrValidation indicates a value does not conform to a schema.
	ErrValidation = errors.New("schema validation failed")

	// ErrUnknownFormat indicates a descriptor file has an unsupported extension.
	ErrUnknownFormat = errors.New("unknown descriptor format")
)

// FieldError is a single validation failure located at a field path.
type FieldError struct {
	// Path is the dotted location of the offending value ("items.0.name"),
	// or "(root)" for the document itself.
	Path string `json:"path"`

	// Message describes what is wrong with the value.
	Message string `json:"message"`
}

// String returns "path: message".
func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationError reports every field-level failure for one value.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Schema string
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	details := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		details = append(details, f.String())
	}
	prefix := ErrValidation.Error()
	if e.Schema != "" {
		prefix = fmt.Sprintf("%s (%s)", prefix, e.Schema)
	}
	if len(details) == 0 {
		return prefix
	}
	return prefix + ": " + strings.Join(details, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError with fields in a stable order.
func NewValidationError(schemaName string, fields ...FieldError) *ValidationError {
	sorted := append([]FieldError(nil), fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Message < sorted[j].Message
	})
	return &ValidationError{Schema: schemaName, Fields: sorted}
}

// FieldErrors returns the field-level failures carried by err, if any.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
