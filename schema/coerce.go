package schema

import (
	"math"
	"strconv"
	"strings"
)

// Coerce returns a copy of value with loosely typed scalars converted to the
// types the schema declares:
//
//   - integer fields accept numeric strings ("30", "30.0") and integral floats
//   - number fields accept numeric strings ("0.9")
//   - boolean fields accept "true"/"false", "yes"/"no", "on"/"off", "1"/"0"
//     (any case) and the numbers 0 and 1
//
// Values that cannot be converted are left as they are, so Validate still
// reports them. Nested objects and array items are coerced by their own
// field definitions. The input is not modified.
func (s *Schema) Coerce(value map[string]any) map[string]any {
	if s == nil || value == nil {
		return value
	}
	return coerceObject(s.Fields, value)
}

func coerceObject(fields []Field, value map[string]any) map[string]any {
	out := make(map[string]any, len(value))
	for k, v := range value {
		out[k] = v
	}
	for _, f := range fields {
		if v, ok := out[f.Name]; ok {
			out[f.Name] = coerceValue(f, v)
		}
	}
	return out
}

func coerceValue(f Field, v any) any {
	if v == nil {
		return nil
	}
	switch f.Type {
	case TypeInteger:
		if n, ok := toFloat(v); ok && n == math.Trunc(n) {
			return n
		}
	case TypeNumber:
		if n, ok := toFloat(v); ok {
			return n
		}
	case TypeBoolean:
		if b, ok := toBool(v); ok {
			return b
		}
	case TypeObject:
		if obj, ok := v.(map[string]any); ok {
			return coerceObject(f.Fields, obj)
		}
	case TypeArray:
		if items, ok := v.([]any); ok && f.Items != nil {
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = coerceValue(*f.Items, item)
			}
			return out
		}
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		switch b {
		case 0:
			return false, true
		case 1:
			return true, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, true
		case "false", "f", "no", "n", "off", "0":
			return false, true
		}
	}
	return false, false
}
