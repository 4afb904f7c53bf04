// Package template renders prompt text with {{variable}} placeholders.
//
// Templates use a small Handlebars-like syntax that is converted to
// text/template before parsing:
//
//	Query: {{query}}
//	{{#if instructions}}{{instructions}}{{/if}}
//	{{#each examples}}Human: {{.Input}}{{/each}}
//	{{indent schema 2}}
//
// Inside #each the element is the dot, so element fields keep their
// leading dot. Helpers are called by name with variables or literals as
// arguments.
//
// Templates are compiled once and executed many times. Execution is strict:
// every variable the template references must be present in the map, so a
// misspelled key fails with ErrVariable instead of rendering "<no value>".
//
//	engine := template.NewEngine()
//	tmpl := template.Must(engine.Compile("greeting", "Hello, {{name}}!"))
//	out, err := tmpl.Execute(map[string]any{"name": "World"})
//	// out: "Hello, World!"
//
// # Built-in Functions
//
//   - json(v any) string - pretty-printed JSON
//   - indent(s string, spaces int) string - prefix every line
//   - trim(s string) string - strip surrounding whitespace
//   - upper(s string) string, lower(s string) string
//   - default(val, fallback any) any - fallback when val is nil or ""
package template
