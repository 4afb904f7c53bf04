// Package parser locates and decodes the JSON object embedded in an LLM reply.
//
// Models asked for JSON often wrap it in prose or markdown. FindObject trims
// the reply, finds the first '{' and scans forward counting brace depth until
// the depth returns to zero. The span between is the candidate object.
//
// The scan does not track string literals: a '{' or '}' inside a quoted
// value before the real closing brace shifts the depth count, and the
// candidate is truncated or reported unbalanced. Replies that need exact
// handling of such values should be checked with Decode's error.
//
// Example usage:
//
//	p := parser.NewParser()
//	obj, err := p.Decode(reply)
//	switch {
//	case errors.Is(err, parser.ErrNoJSONFound):
//	    // reply had no '{' at all
//	case errors.Is(err, parser.ErrUnbalancedBraces):
//	    // reply was cut off
//	case errors.Is(err, parser.ErrMalformedJSON):
//	    // span was found but is not JSON
//	}
//
// FindFenced prefers the body of a fenced ```json block and falls back to
// the same scan.
package parser
