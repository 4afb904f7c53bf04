package template

import (
	"fmt"
	"strings"
	"text/template"
)

// Engine compiles prompt templates with a shared set of helper functions.
type Engine struct {
	funcs template.FuncMap
}

// NewEngine creates a new template engine with default helper functions.
func NewEngine() *Engine {
	return &Engine{
		funcs: defaultFuncs(),
	}
}

// AddFunc adds a custom template function.
// Templates compiled afterwards can call it by name; templates compiled
// earlier are unaffected.
func (e *Engine) AddFunc(name string, fn any) {
	e.funcs[name] = fn
}

// Compile converts and parses text. The returned Template is immutable and
// safe for concurrent use.
func (e *Engine) Compile(name, text string) (*Template, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmpty
	}

	names := make([]string, 0, len(e.funcs))
	funcs := make(template.FuncMap, len(e.funcs))
	for n, fn := range e.funcs {
		names = append(names, n)
		funcs[n] = fn
	}
	conv := newConverter(names)

	tmpl, err := template.New(name).Funcs(funcs).Parse(conv.convert(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	required, optional := conv.variables(text)
	return &Template{
		name:     name,
		source:   text,
		tmpl:     tmpl,
		required: required,
		optional: optional,
	}, nil
}

// Render compiles and executes text in one step.
func (e *Engine) Render(text string, vars map[string]any) (string, error) {
	tmpl, err := e.Compile("prompt", text)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(vars)
}

// Must panics if err is non-nil. It is intended for templates defined in
// package-level variables.
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Template is a compiled prompt template.
type Template struct {
	name     string
	source   string
	tmpl     *template.Template
	required []string
	optional []string
}

// Name returns the name the template was compiled with.
func (t *Template) Name() string { return t.name }

// Source returns the original template text.
func (t *Template) Source() string { return t.source }

// Variables returns the names that must be present when executing.
func (t *Template) Variables() []string {
	out := make([]string, len(t.required))
	copy(out, t.required)
	return out
}

// Conditions returns the names used only as #if conditions. They may be
// omitted at execution time.
func (t *Template) Conditions() []string {
	out := make([]string, len(t.optional))
	copy(out, t.optional)
	return out
}

// Execute renders the template. Every name reported by Variables must be a
// key in vars, otherwise an error wrapping ErrVariable is returned.
func (t *Template) Execute(vars map[string]any) (string, error) {
	if err := ValidateVariables(t.required, vars); err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := t.tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, err)
	}
	return buf.String(), nil
}

// ValidateVariables checks that all required variables are provided.
// Returns an error wrapping ErrVariable naming every missing variable.
func ValidateVariables(required []string, provided map[string]any) error {
	var missing []string
	for _, name := range required {
		if _, ok := provided[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrVariable, strings.Join(missing, ", "))
	}
	return nil
}
