package template

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// defaultFuncs returns the built-in template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		"json":    toJSON,
		"indent":  indent,
		"trim":    strings.TrimSpace,
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"default": defaultValue,
	}
}

// toJSON renders v as indented JSON. Strings that already hold JSON
// (a json.RawMessage or []byte) are re-indented rather than quoted.
func toJSON(v any) string {
	switch raw := v.(type) {
	case json.RawMessage:
		return indentRaw(raw)
	case []byte:
		return indentRaw(raw)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func indentRaw(raw []byte) string {
	b, err := json.MarshalIndent(json.RawMessage(raw), "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(b)
}

// indent prefixes every non-empty line of s with spaces.
func indent(s string, spaces int) string {
	if spaces <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns fallback when val is nil or the empty string.
func defaultValue(val, fallback any) any {
	if val == nil {
		return fallback
	}
	if s, ok := val.(string); ok && s == "" {
		return fallback
	}
	return val
}
