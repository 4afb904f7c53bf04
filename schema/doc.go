// Package schema describes the structured output expected from an LLM.
//
// A Schema is an ordered list of fields, each with a name, a JSON value type,
// and optionality. The same description is used twice: rendered as a JSON
// Schema document it tells the model what to produce, and compiled into a
// validator it checks what the model actually produced.
//
// Schemas can be built in code:
//
//	person := schema.New("person",
//	    schema.String("name"),
//	    schema.Integer("age"),
//	    schema.String("occupation").AsOptional(),
//	)
//
// derived from a Go type:
//
//	person, err := schema.FromType(Person{})
//
// or loaded from YAML, TOML or JSON descriptor files:
//
//	person, err := schema.LoadFile("schemas/person.yaml")
//
// A Catalog keeps every descriptor in a directory loaded and can reload them
// when files change.
package schema
