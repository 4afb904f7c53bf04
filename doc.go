// Package promptuner turns free-form text into JSON objects that conform to
// a caller-supplied schema, using a remote chat-completion model.
//
// Each subpackage can be used independently:
//
//   - schema: Field/Schema types, reflection from Go structs, validation,
//     descriptor files and a hot-reloading catalog
//   - template: Prompt rendering with {{variable}} syntax
//   - parser: Locate and decode the first JSON object in a reply
//   - extract: Prompt building, the single-shot Extractor and typed helpers
//   - fewshot: A few-shot agent that answers with a validated Decision
//   - provider: The model client interface, config, errors and a mock
//   - openai: OpenAI-compatible binding, registered as "openai" and "deepseek"
//   - metrics: Prometheus and no-op collectors
//
// # Quick Start
//
// Extract with an explicit schema:
//
//	client, _ := promptuner.NewClientFromEnv()
//	ex, _ := extract.New(client, extract.Config{})
//	s := schema.New("PersonInfo",
//	    schema.String("name"),
//	    schema.Integer("age"),
//	    schema.String("occupation").AsOptional(),
//	)
//	res, err := ex.Extract(ctx, "John is 30 and writes software", s)
//
// Extract into a Go type:
//
//	type PersonInfo struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//	p, err := extract.Into[PersonInfo](ctx, ex, "John is 30")
//
// A reply that holds no JSON object, an unbalanced one, or one that fails
// the schema is an error. Nothing is retried.
package promptuner
