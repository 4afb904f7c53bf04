package template

import (
	"regexp"
	"sort"
	"strings"
)

// goTemplateKeywords are Go template reserved words that should not be
// converted to variable references.
var goTemplateKeywords = map[string]bool{
	"else":     true,
	"end":      true,
	"if":       true,
	"range":    true,
	"with":     true,
	"define":   true,
	"template": true,
	"block":    true,
}

var (
	ifPattern      = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_]\w*)\s*\}\}`)
	eachPattern    = regexp.MustCompile(`\{\{#each\s+([a-zA-Z_]\w*)\s*\}\}`)
	varPattern     = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)\s*\}\}`)
	callPattern    = regexp.MustCompile(`\{\{\s*([a-zA-Z_]\w*)\s+([^{}]+?)\s*\}\}`)
	controlPattern = regexp.MustCompile(`\{\{#(if|each)\s+([a-zA-Z_]\w*)\s*\}\}`)
)

// converter rewrites Handlebars-like syntax to Go template syntax. Helper
// calls are recognized by the names in funcs.
type converter struct {
	funcs map[string]bool
}

func newConverter(names []string) converter {
	c := converter{funcs: make(map[string]bool, len(names))}
	for _, n := range names {
		c.funcs[n] = true
	}
	return c
}

// convert converts Handlebars-like syntax to Go template syntax.
//
// Conversions:
//   - {{variable}} -> {{.variable}}
//   - {{#if x}}...{{else}}...{{/if}} -> {{if .x}}...{{else}}...{{end}}
//   - {{#each items}}...{{/each}} -> {{range .items}}...{{end}}
//   - {{helper arg1 arg2}} -> {{helper .arg1 .arg2}}
func (c converter) convert(input string) string {
	result := ifPattern.ReplaceAllString(input, "{{if .$1}}")
	result = strings.ReplaceAll(result, "{{/if}}", "{{end}}")

	result = eachPattern.ReplaceAllString(result, "{{range .$1}}")
	result = strings.ReplaceAll(result, "{{/each}}", "{{end}}")

	result = varPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		if goTemplateKeywords[name] || c.funcs[name] {
			return match
		}
		return "{{." + name + "}}"
	})

	return callPattern.ReplaceAllStringFunc(result, func(match string) string {
		m := callPattern.FindStringSubmatch(match)
		if !c.funcs[m[1]] {
			return match
		}
		return "{{" + m[1] + " " + convertArguments(m[2]) + "}}"
	})
}

// variables returns the top-level names a template references, split into
// required names and names only used as #if conditions. Both are sorted.
func (c converter) variables(input string) (required, optional []string) {
	req := make(map[string]bool)
	cond := make(map[string]bool)

	for _, m := range controlPattern.FindAllStringSubmatch(input, -1) {
		if m[1] == "if" {
			cond[m[2]] = true
		} else {
			req[m[2]] = true
		}
	}

	for _, m := range varPattern.FindAllStringSubmatch(input, -1) {
		if goTemplateKeywords[m[1]] || c.funcs[m[1]] {
			continue
		}
		req[m[1]] = true
	}

	for _, m := range callPattern.FindAllStringSubmatch(input, -1) {
		if !c.funcs[m[1]] {
			continue
		}
		for _, arg := range splitArguments(m[2]) {
			if isValidIdentifier(arg) && arg != "true" && arg != "false" && arg != "nil" {
				req[arg] = true
			}
		}
	}

	for name := range req {
		required = append(required, name)
	}
	for name := range cond {
		if !req[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(required)
	sort.Strings(optional)
	return required, optional
}

// convertArguments converts a space-separated list of arguments.
// Variables become .variable, literals (numbers, quoted strings, booleans) stay as-is.
func convertArguments(args string) string {
	parts := splitArguments(args)
	for i, part := range parts {
		switch {
		case strings.HasPrefix(part, "."),
			isNumber(part),
			isQuotedString(part),
			part == "true", part == "false", part == "nil":
			continue
		case isValidIdentifier(part):
			parts[i] = "." + part
		}
	}
	return strings.Join(parts, " ")
}

// splitArguments splits arguments while respecting quoted strings.
func splitArguments(args string) []string {
	var parts []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, ch := range args {
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
			current.WriteRune(ch)
		case inQuote && ch == quoteChar:
			inQuote = false
			current.WriteRune(ch)
		case !inQuote && (ch == ' ' || ch == '\t'):
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// isNumber checks if a string represents a number (integer or float, optionally negative).
func isNumber(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	for i, ch := range s {
		if ch == '-' && i == 0 {
			continue
		}
		if ch == '.' {
			continue
		}
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// isQuotedString checks if a string is wrapped in matching quotes.
func isQuotedString(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)) ||
		(strings.HasPrefix(s, `'`) && strings.HasSuffix(s, `'`))
}

// isValidIdentifier checks if a string is a valid variable name.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		if i == 0 && ch >= '0' && ch <= '9' {
			return false
		}
		isLower := ch >= 'a' && ch <= 'z'
		isUpper := ch >= 'A' && ch <= 'Z'
		isDigit := ch >= '0' && ch <= '9'
		if !isLower && !isUpper && !isDigit && ch != '_' {
			return false
		}
	}
	return true
}
