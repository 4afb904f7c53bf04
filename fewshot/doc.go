// Package fewshot classifies a user request into a Decision by showing the
// model a few worked examples.
//
// The prompt is a system line, the examples as "Human:"/"AI:" pairs, the new
// input, and format instructions embedding the Decision JSON Schema. The
// reply is searched for a fenced json block first, then for the first
// balanced object, and the result is validated before it is returned.
//
//	agent, err := fewshot.New(client, fewshot.Config{})
//	d, err := agent.Process(ctx, "How do I cook pasta?")
//	// d.Action is one of search, explain, recommend
package fewshot
