package schema

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, text string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

func TestValidate(t *testing.T) {
	ab := New("ab", Integer("a"), String("b"))

	tests := []struct {
		name      string
		schema    *Schema
		value     string
		wantErr   bool
		wantPaths []string
	}{
		{
			name:   "matching fields",
			schema: ab,
			value:  `{"a": 1, "b": "x"}`,
		},
		{
			name:   "extra fields are ignored",
			schema: ab,
			value:  `{"a": 1, "b": "x", "c": true}`,
		},
		{
			name:   "integral float is an integer",
			schema: ab,
			value:  `{"a": 1.0, "b": "x"}`,
		},
		{
			name:      "string where integer expected",
			schema:    New("a", Integer("a")),
			value:     `{"a": "x"}`,
			wantErr:   true,
			wantPaths: []string{"a"},
		},
		{
			name:      "missing required field",
			schema:    ab,
			value:     `{"a": 1}`,
			wantErr:   true,
			wantPaths: []string{rootPath},
		},
		{
			name:   "optional field absent",
			schema: New("opt", String("a"), String("b").AsOptional()),
			value:  `{"a": "x"}`,
		},
		{
			name:   "optional field null",
			schema: New("opt", String("a"), String("b").AsOptional()),
			value:  `{"a": "x", "b": null}`,
		},
		{
			name:      "required field null",
			schema:    New("req", String("a")),
			value:     `{"a": null}`,
			wantErr:   true,
			wantPaths: []string{"a"},
		},
		{
			name:      "enum violation",
			schema:    New("enum", String("action").OneOf("search", "explain", "recommend")),
			value:     `{"action": "dance"}`,
			wantErr:   true,
			wantPaths: []string{"action"},
		},
		{
			name:      "bound violation",
			schema:    New("bounds", Number("confidence").Between(0, 1)),
			value:     `{"confidence": 1.5}`,
			wantErr:   true,
			wantPaths: []string{"confidence"},
		},
		{
			name:      "nested array element",
			schema:    New("nested", Array("items", Object("", Integer("n")))),
			value:     `{"items": [{"n": 1}, {"n": "two"}]}`,
			wantErr:   true,
			wantPaths: []string{"items.1.n"},
		},
		{
			name:      "several failures",
			schema:    ab,
			value:     `{"a": "x", "b": 2}`,
			wantErr:   true,
			wantPaths: []string{"a", "b"},
		},
		{
			name:      "not an object",
			schema:    ab,
			value:     `[1, 2]`,
			wantErr:   true,
			wantPaths: []string{rootPath},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(decode(t, tt.value))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.schema.Name, ve.Schema)

			paths := make(map[string]bool)
			for _, f := range ve.Fields {
				paths[f.Path] = true
				assert.NotEmpty(t, f.Message)
			}
			for _, p := range tt.wantPaths {
				assert.True(t, paths[p], "expected failure at %q, got %v", p, ve.Fields)
			}
		})
	}
}

func TestValidate_MissingFieldNamed(t *testing.T) {
	err := New("ab", Integer("a"), String("b")).Validate(decode(t, `{"a": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b")
}

func TestValidate_InvalidSchema(t *testing.T) {
	s := New("bad", Field{Name: "a", Type: "timestamp"})

	err := s.Validate(decode(t, `{"a": 1}`))
	assert.ErrorIs(t, err, ErrInvalidSchema)
	assert.NotErrorIs(t, err, ErrValidation)

	// The compile error is sticky.
	err = s.Validate(decode(t, `{"a": 1}`))
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestValidate_NilSchema(t *testing.T) {
	var s *Schema
	assert.ErrorIs(t, s.Validate(map[string]any{}), ErrInvalidSchema)
}

func TestValidate_Deterministic(t *testing.T) {
	s := New("many", Integer("a"), Integer("b"), Integer("c"), Integer("d"))
	value := decode(t, `{"a": "1", "b": "2", "c": "3", "d": "4"}`)

	first := s.Validate(value)
	require.Error(t, first)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Error(), s.Validate(value).Error())
	}
}

func TestValidate_Concurrent(t *testing.T) {
	s := New("ab", Integer("a"), String("b"))
	good := decode(t, `{"a": 1, "b": "x"}`)
	bad := decode(t, `{"a": "x"}`)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				assert.NoError(t, s.Validate(good))
			} else {
				assert.ErrorIs(t, s.Validate(bad), ErrValidation)
			}
		}(i)
	}
	wg.Wait()
}

func TestValidationError_Format(t *testing.T) {
	err := NewValidationError("person",
		FieldError{Path: "b", Message: "expected string"},
		FieldError{Path: "a", Message: "expected integer"},
	)

	assert.Equal(t, "a", err.Fields[0].Path)
	assert.Equal(t,
		"schema validation failed (person): a: expected integer; b: expected string",
		err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, FieldErrors(err), 2)
	assert.Nil(t, FieldErrors(errors.New("other")))
}

func TestFieldPath(t *testing.T) {
	tests := map[string]string{
		"":              rootPath,
		"/":             rootPath,
		"/a":            "a",
		"/items/0/name": "items.0.name",
		"/a~1b/c~0d":    "a/b.c~d",
	}
	for in, want := range tests {
		assert.Equal(t, want, fieldPath(in), in)
	}
}

func TestCoerce(t *testing.T) {
	s := New("person",
		Integer("age"),
		Number("score"),
		Boolean("active"),
		String("name"),
		Object("address", Integer("zip")).AsOptional(),
		Array("counts", Integer("")).AsOptional(),
	)

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr []string
	}{
		{
			name:  "already typed",
			value: `{"age": 30, "score": 0.9, "active": true, "name": "John"}`,
			want:  `{"age": 30, "score": 0.9, "active": true, "name": "John"}`,
		},
		{
			name:  "numeric and boolean strings",
			value: `{"age": "30", "score": "0.9", "active": "true", "name": "John"}`,
			want:  `{"age": 30, "score": 0.9, "active": true, "name": "John"}`,
		},
		{
			name:  "integral forms",
			value: `{"age": " 30.0 ", "score": "1e2", "active": "No", "name": "John"}`,
			want:  `{"age": 30, "score": 100, "active": false, "name": "John"}`,
		},
		{
			name:  "numbers as booleans",
			value: `{"age": 1, "score": 1, "active": 0, "name": "John"}`,
			want:  `{"age": 1, "score": 1, "active": false, "name": "John"}`,
		},
		{
			name:  "nested object and array items",
			value: `{"age": 1, "score": 1, "active": true, "name": "J", "address": {"zip": "12345"}, "counts": ["1", 2, "3"]}`,
			want:  `{"age": 1, "score": 1, "active": true, "name": "J", "address": {"zip": 12345}, "counts": [1, 2, 3]}`,
		},
		{
			name:  "null and extra fields untouched",
			value: `{"age": 1, "score": 1, "active": true, "name": "J", "address": null, "extra": "7"}`,
			want:  `{"age": 1, "score": 1, "active": true, "name": "J", "address": null, "extra": "7"}`,
		},
		{
			name:    "non-numeric string stays rejected",
			value:   `{"age": "thirty", "score": "high", "active": "maybe", "name": "John"}`,
			want:    `{"age": "thirty", "score": "high", "active": "maybe", "name": "John"}`,
			wantErr: []string{"active", "age", "score"},
		},
		{
			name:    "fractional value is not an integer",
			value:   `{"age": "30.5", "score": 1, "active": true, "name": "John"}`,
			want:    `{"age": "30.5", "score": 1, "active": true, "name": "John"}`,
			wantErr: []string{"age"},
		},
		{
			name:    "numbers are not strings",
			value:   `{"age": 1, "score": 1, "active": true, "name": 5}`,
			want:    `{"age": 1, "score": 1, "active": true, "name": 5}`,
			wantErr: []string{"name"},
		},
		{
			name:    "special floats rejected",
			value:   `{"age": 1, "score": "NaN", "active": true, "name": "J"}`,
			want:    `{"age": 1, "score": "NaN", "active": true, "name": "J"}`,
			wantErr: []string{"score"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := decode(t, tt.value).(map[string]any)
			got := s.Coerce(in)
			assert.Equal(t, decode(t, tt.want), got)

			err := s.Validate(got)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			var paths []string
			for _, f := range FieldErrors(err) {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tt.wantErr, paths)
		})
	}
}

func TestCoerce_DoesNotModifyInput(t *testing.T) {
	s := New("a", Integer("a"), Object("o", Boolean("b")))
	in := map[string]any{"a": "1", "o": map[string]any{"b": "yes"}}

	got := s.Coerce(in)
	assert.Equal(t, map[string]any{"a": 1.0, "o": map[string]any{"b": true}}, got)
	assert.Equal(t, map[string]any{"a": "1", "o": map[string]any{"b": "yes"}}, in)

	var nilSchema *Schema
	assert.Equal(t, in, nilSchema.Coerce(in))
}
