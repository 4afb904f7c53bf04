package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Type is the JSON value type a field holds.
type Type string

// Supported field types. TypeAny accepts every JSON value.
const (
	TypeAny     Type = ""
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeObject  Type = "object"
	TypeArray   Type = "array"
)

func (t Type) valid() bool {
	switch t {
	case TypeAny, TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeObject, TypeArray:
		return true
	}
	return false
}

// Field describes one expected value.
type Field struct {
	// Name is the JSON property name. Ignored for array items.
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`

	// Type is the JSON type of the value. Empty accepts anything.
	Type Type `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`

	// Description is shown to the model alongside the field.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	// Format is an optional JSON Schema format hint ("date-time", "email").
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`

	// Optional fields may be absent or null.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty" toml:"optional,omitempty"`

	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty" yaml:"enum,omitempty" toml:"enum,omitempty"`

	// Minimum and Maximum bound numeric values (inclusive).
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty" toml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty" toml:"maximum,omitempty"`

	// Fields are the properties of an object field.
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty" toml:"fields,omitempty"`

	// Items describes the elements of an array field.
	Items *Field `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
}

// String returns a required string field.
func String(name string) Field { return Field{Name: name, Type: TypeString} }

// Integer returns a required integer field.
func Integer(name string) Field { return Field{Name: name, Type: TypeInteger} }

// Number returns a required number field.
func Number(name string) Field { return Field{Name: name, Type: TypeNumber} }

// Boolean returns a required boolean field.
func Boolean(name string) Field { return Field{Name: name, Type: TypeBoolean} }

// Any returns a required field that accepts any JSON value.
func Any(name string) Field { return Field{Name: name, Type: TypeAny} }

// Object returns a required object field with the given properties.
func Object(name string, fields ...Field) Field {
	return Field{Name: name, Type: TypeObject, Fields: fields}
}

// Array returns a required array field whose elements match items.
func Array(name string, items Field) Field {
	items.Name = ""
	return Field{Name: name, Type: TypeArray, Items: &items}
}

// AsOptional returns a copy of the field that may be absent or null.
func (f Field) AsOptional() Field {
	f.Optional = true
	return f
}

// Describe returns a copy of the field with a description.
func (f Field) Describe(description string) Field {
	f.Description = description
	return f
}

// OneOf returns a copy of the field restricted to values.
func (f Field) OneOf(values ...any) Field {
	f.Enum = values
	return f
}

// Between returns a copy of the field bounded to [min, max].
func (f Field) Between(min, max float64) Field {
	f.Minimum = &min
	f.Maximum = &max
	return f
}

// Schema is the structural description of an expected LLM response.
// A Schema must not be modified after its first call to Validate.
type Schema struct {
	// Name identifies the schema in catalogs, prompts and errors.
	Name string `json:"name" yaml:"name" toml:"name"`

	// Description is rendered as the JSON Schema description.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	// Fields are the top-level properties, in declaration order.
	Fields []Field `json:"fields" yaml:"fields" toml:"fields"`

	once       sync.Once
	validator  *jsonschema.Schema
	compileErr error
}

// New creates a schema with the given top-level fields.
func New(name string, fields ...Field) *Schema {
	return &Schema{Name: name, Fields: fields}
}

// Field returns the top-level field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Required returns the names of the top-level fields that must be present.
func (s *Schema) Required() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// Check reports structural problems in the description itself.
func (s *Schema) Check() error {
	if s == nil {
		return fmt.Errorf("%w: nil schema", ErrInvalidSchema)
	}
	return checkFields(s.Name, s.Fields)
}

func checkFields(path string, fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("%w: %s: field without a name", ErrInvalidSchema, path)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidSchema, path, f.Name)
		}
		seen[f.Name] = true
		if err := checkField(path+"."+f.Name, f); err != nil {
			return err
		}
	}
	return nil
}

func checkField(path string, f Field) error {
	if !f.Type.valid() {
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidSchema, path, f.Type)
	}
	if f.Minimum != nil && f.Maximum != nil && *f.Minimum > *f.Maximum {
		return fmt.Errorf("%w: %s: minimum %v exceeds maximum %v", ErrInvalidSchema, path, *f.Minimum, *f.Maximum)
	}
	switch f.Type {
	case TypeObject:
		return checkFields(path, f.Fields)
	case TypeArray:
		if f.Items == nil {
			return nil
		}
		return checkField(path+"[]", *f.Items)
	}
	if len(f.Fields) > 0 || f.Items != nil {
		return fmt.Errorf("%w: %s: only object and array fields may nest", ErrInvalidSchema, path)
	}
	return nil
}

// JSONSchema renders the schema as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	doc := objectSchema(s.Fields)
	if s.Name != "" {
		doc["title"] = s.Name
	}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	return doc
}

// MarshalJSONSchema renders the schema as indented JSON Schema text.
// Output is deterministic: object keys are sorted.
func (s *Schema) MarshalJSONSchema() ([]byte, error) {
	b, err := json.MarshalIndent(s.JSONSchema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	return b, nil
}

func objectSchema(fields []Field) map[string]any {
	doc := map[string]any{"type": "object"}
	if len(fields) == 0 {
		return doc
	}
	props := make(map[string]any, len(fields))
	required := make([]string, 0, len(fields))
	for _, f := range fields {
		props[f.Name] = f.jsonSchema()
		if !f.Optional {
			required = append(required, f.Name)
		}
	}
	doc["properties"] = props
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func (f Field) jsonSchema() map[string]any {
	var doc map[string]any
	switch f.Type {
	case TypeObject:
		doc = objectSchema(f.Fields)
	case TypeArray:
		doc = map[string]any{"type": "array"}
		if f.Items != nil {
			doc["items"] = f.Items.jsonSchema()
		}
	case TypeAny:
		doc = map[string]any{}
	default:
		doc = map[string]any{"type": string(f.Type)}
	}

	// Models tend to emit null for fields they have no value for.
	if f.Optional && f.Type != TypeAny {
		doc["type"] = []string{string(f.Type), "null"}
	}
	if f.Description != "" {
		doc["description"] = f.Description
	}
	if f.Format != "" {
		doc["format"] = f.Format
	}
	if len(f.Enum) > 0 {
		enum := append([]any(nil), f.Enum...)
		if f.Optional {
			enum = append(enum, nil)
		}
		doc["enum"] = enum
	}
	if f.Minimum != nil {
		doc["minimum"] = *f.Minimum
	}
	if f.Maximum != nil {
		doc["maximum"] = *f.Maximum
	}
	return doc
}
