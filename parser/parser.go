package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Object is a JSON object located in an LLM reply.
type Object struct {
	// Text is the candidate span, from the first '{' through its matching '}'.
	Text string

	// Value is the decoded object.
	Value map[string]any
}

// Parser extracts JSON objects from LLM responses.
// A Parser holds only compiled patterns and is safe for concurrent use.
type Parser struct {
	// fencedBlockRegex matches ```json or untagged ``` fenced blocks.
	fencedBlockRegex *regexp.Regexp
}

// NewParser creates a new response parser with compiled regexes.
func NewParser() *Parser {
	return &Parser{
		fencedBlockRegex: regexp.MustCompile("(?s)```(?:json)?[ \\t]*\\r?\\n(.*?)```"),
	}
}

// FindObject returns the first balanced {...} span in text.
//
// Leading and trailing whitespace is trimmed, then the text is scanned from
// the first '{' with a depth counter: '{' increments, '}' decrements, and
// the first return to zero ends the span (inclusive). Braces inside string
// literals are counted like any other brace.
func (p *Parser) FindObject(text string) (string, error) {
	text = strings.TrimSpace(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONFound
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedBraces
}

// FindFenced returns the object inside the first fenced json block, if the
// block holds one, and otherwise behaves like FindObject on the whole text.
func (p *Parser) FindFenced(text string) (string, error) {
	if m := p.fencedBlockRegex.FindStringSubmatch(text); len(m) == 2 {
		if span, err := p.FindObject(m[1]); err == nil {
			return span, nil
		}
	}
	return p.FindObject(text)
}

// Decode locates the first object with FindObject and decodes it.
func (p *Parser) Decode(text string) (*Object, error) {
	span, err := p.FindObject(text)
	if err != nil {
		return nil, err
	}
	return decodeSpan(span)
}

// DecodeFenced locates the first object with FindFenced and decodes it.
func (p *Parser) DecodeFenced(text string) (*Object, error) {
	span, err := p.FindFenced(text)
	if err != nil {
		return nil, err
	}
	return decodeSpan(span)
}

func decodeSpan(span string) (*Object, error) {
	var value map[string]any
	if err := json.Unmarshal([]byte(span), &value); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return &Object{Text: span, Value: value}, nil
}

var defaultParser = NewParser()

// FindObject is a convenience function using the default parser.
func FindObject(text string) (string, error) {
	return defaultParser.FindObject(text)
}

// Decode is a convenience function using the default parser.
func Decode(text string) (*Object, error) {
	return defaultParser.Decode(text)
}
