package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
)

// FromType derives a schema from a Go value's type.
//
// Exported struct fields become properties named by their json tag. Fields
// tagged omitempty are optional. The `jsonschema` struct tag adds
// descriptions, enums and bounds:
//
//	type Decision struct {
//	    Action     string  `json:"action" jsonschema:"enum=search,enum=explain"`
//	    Confidence float64 `json:"confidence" jsonschema:"minimum=0,maximum=1"`
//	}
func FromType(v any) (*Schema, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: cannot reflect nil", ErrInvalidSchema)
	}

	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	doc, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal reflected schema: %w", ErrInvalidSchema, err)
	}
	return Parse(doc, typeName(v))
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Parse converts a JSON Schema document into a Schema. The root must be an
// object schema. References ($ref) are not followed.
//
// JSON objects are unordered, so parsed fields are sorted by name.
// If name is empty the document's title is used.
func Parse(doc []byte, name string) (*Schema, error) {
	var root map[string]any
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	rootType, _, err := nodeType(root)
	if err != nil {
		return nil, err
	}
	if rootType != TypeObject {
		return nil, fmt.Errorf("%w: root must be an object schema, got %q", ErrInvalidSchema, rootType)
	}

	fields, err := parseProperties(root)
	if err != nil {
		return nil, err
	}

	s := &Schema{
		Name:        name,
		Description: stringOf(root["description"]),
		Fields:      fields,
	}
	if s.Name == "" {
		s.Name = stringOf(root["title"])
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseProperties(node map[string]any) ([]Field, error) {
	props, _ := node["properties"].(map[string]any)
	if len(props) == 0 {
		return nil, nil
	}

	required := make(map[string]bool)
	if list, ok := node["required"].([]any); ok {
		for _, item := range list {
			if name, ok := item.(string); ok {
				required[name] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		child, ok := props[name].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: property %q is not a schema object", ErrInvalidSchema, name)
		}
		f, err := parseField(name, child)
		if err != nil {
			return nil, err
		}
		f.Optional = f.Optional || !required[name]
		fields = append(fields, f)
	}
	return fields, nil
}

func parseField(name string, node map[string]any) (Field, error) {
	if ref, ok := node["$ref"].(string); ok {
		return Field{}, fmt.Errorf("%w: %s: reference %q is not supported", ErrInvalidSchema, name, ref)
	}

	t, nullable, err := nodeType(node)
	if err != nil {
		return Field{}, fmt.Errorf("%s: %w", name, err)
	}

	f := Field{
		Name:        name,
		Type:        t,
		Description: stringOf(node["description"]),
		Format:      stringOf(node["format"]),
		Optional:    nullable,
		Minimum:     floatOf(node["minimum"]),
		Maximum:     floatOf(node["maximum"]),
	}
	if enum, ok := node["enum"].([]any); ok {
		for _, v := range enum {
			if v != nil {
				f.Enum = append(f.Enum, v)
			}
		}
	}

	switch t {
	case TypeObject:
		f.Fields, err = parseProperties(node)
		if err != nil {
			return Field{}, err
		}
	case TypeArray:
		if items, ok := node["items"].(map[string]any); ok {
			item, err := parseField("", items)
			if err != nil {
				return Field{}, fmt.Errorf("%s[]: %w", name, err)
			}
			f.Items = &item
		}
	}
	return f, nil
}

// nodeType reads "type", which is either a string or a list that may
// include "null".
func nodeType(node map[string]any) (Type, bool, error) {
	switch v := node["type"].(type) {
	case nil:
		if _, ok := node["properties"]; ok {
			return TypeObject, false, nil
		}
		return TypeAny, false, nil
	case string:
		t := Type(v)
		if !t.valid() {
			return TypeAny, false, fmt.Errorf("%w: unknown type %q", ErrInvalidSchema, v)
		}
		return t, false, nil
	case []any:
		var (
			t        = TypeAny
			nullable bool
		)
		for _, item := range v {
			s, _ := item.(string)
			switch {
			case s == "null":
				nullable = true
			case t == TypeAny && Type(s).valid():
				t = Type(s)
			}
		}
		return t, nullable, nil
	default:
		return TypeAny, false, fmt.Errorf("%w: malformed type %v", ErrInvalidSchema, v)
	}
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}

func floatOf(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
