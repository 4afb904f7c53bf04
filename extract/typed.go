package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/promptuner/promptuner/schema"
)

// typeSchemas caches schemas reflected from Go types.
var typeSchemas sync.Map // reflect.Type -> *schema.Schema

// SchemaFor returns the schema reflected from T. Results are cached per type.
func SchemaFor[T any]() (*schema.Schema, error) {
	var zero T
	t := reflect.TypeOf(&zero).Elem()
	if cached, ok := typeSchemas.Load(t); ok {
		return cached.(*schema.Schema), nil
	}

	s, err := schema.FromType(&zero)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	actual, _ := typeSchemas.LoadOrStore(t, s)
	return actual.(*schema.Schema), nil
}

// Into extracts a T from query. The schema is reflected from T (see
// schema.FromType) and the validated JSON is decoded into T.
func Into[T any](ctx context.Context, ex *Extractor, query string, opts ...Option) (T, error) {
	var zero T
	s, err := SchemaFor[T]()
	if err != nil {
		return zero, stageError(StagePrompt, err)
	}

	res, err := ex.Extract(ctx, query, s, opts...)
	if err != nil {
		return zero, err
	}
	return decodeInto[T](s, res.Value)
}

// ParseInto runs only the extraction stage on text and decodes into T.
func ParseInto[T any](ex *Extractor, text string) (T, error) {
	var zero T
	s, err := SchemaFor[T]()
	if err != nil {
		return zero, stageError(StageValidate, err)
	}

	res, err := ex.Parse(text, s)
	if err != nil {
		return zero, err
	}
	return decodeInto[T](s, res.Value)
}

// decodeInto decodes the coerced, validated value into T. Numbers are
// re-encoded in their shortest form, so an integral 30.0 decodes into an int.
// A type mismatch that the schema did not catch is still reported as a
// schema validation failure at the offending field.
func decodeInto[T any](s *schema.Schema, value map[string]any) (T, error) {
	var zero T
	data, err := json.Marshal(value)
	if err != nil {
		return zero, stageError(StageDecode, fmt.Errorf("%w: %w", ErrMalformedJSON, err))
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			path := ute.Field
			if path == "" {
				path = "(root)"
			}
			return zero, stageError(StageDecode, schema.NewValidationError(s.Name, schema.FieldError{
				Path:    path,
				Message: fmt.Sprintf("expected %s, got %s", ute.Type, ute.Value),
			}))
		}
		return zero, stageError(StageDecode, fmt.Errorf("%w: %w", ErrMalformedJSON, err))
	}
	return out, nil
}
