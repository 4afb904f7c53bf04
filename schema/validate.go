package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resourceURL is the in-memory location the rendered document is compiled from.
const resourceURL = "schema.json"

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// Validate checks a decoded JSON value (as produced by encoding/json) against
// the schema. Failures are returned as *ValidationError.
//
// The validator is compiled on first use and reused afterwards, so Validate
// is safe for concurrent use.
func (s *Schema) Validate(value any) error {
	validator, err := s.compile()
	if err != nil {
		return err
	}

	err = validator.Validate(value)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		var fields []FieldError
		collectLeaves(ve, &fields)
		return NewValidationError(s.Name, fields...)
	}
	return NewValidationError(s.Name, FieldError{Path: rootPath, Message: err.Error()})
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	s.once.Do(func() {
		if err := s.Check(); err != nil {
			s.compileErr = err
			return
		}
		doc, err := s.MarshalJSONSchema()
		if err != nil {
			s.compileErr = err
			return
		}

		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(resourceURL, bytes.NewReader(doc)); err != nil {
			s.compileErr = fmt.Errorf("%w: load %q: %w", ErrInvalidSchema, s.Name, err)
			return
		}
		validator, err := compiler.Compile(resourceURL)
		if err != nil {
			s.compileErr = fmt.Errorf("%w: compile %q: %w", ErrInvalidSchema, s.Name, err)
			return
		}
		s.validator = validator
	})
	return s.validator, s.compileErr
}

const rootPath = "(root)"

// collectLeaves flattens the validator's error tree into the failures that
// actually name a value, skipping the "doesn't validate with" wrappers.
func collectLeaves(ve *jsonschema.ValidationError, out *[]FieldError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, FieldError{
			Path:    fieldPath(ve.InstanceLocation),
			Message: ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, out)
	}
}

// fieldPath turns a JSON pointer ("/items/0/name") into "items.0.name".
func fieldPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return rootPath
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = pointerUnescaper.Replace(p)
	}
	return strings.Join(parts, ".")
}
