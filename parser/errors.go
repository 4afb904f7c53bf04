package parser

import "errors"

// Sentinel errors for extraction.
var (
	// ErrNoJSONFound is returned when the text contains no '{'.
	ErrNoJSONFound = errors.New("no JSON object found in response")

	// ErrUnbalancedBraces is returned when the brace depth never returns to zero.
	ErrUnbalancedBraces = errors.New("no matching closing brace found")

	// ErrMalformedJSON is returned when the candidate span is not valid JSON.
	ErrMalformedJSON = errors.New("invalid JSON in response")
)
