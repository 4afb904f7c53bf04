package extract

import (
	"fmt"
	"strings"

	"github.com/promptuner/promptuner/schema"
	"github.com/promptuner/promptuner/template"
)

// DefaultSystemPrompt is sent with every extraction unless Config overrides it.
const DefaultSystemPrompt = "You are an expert at extracting structured information from text. " +
	"Always return valid JSON that matches the provided schema exactly."

const promptText = `Extract structured information from the following query and return it as JSON that matches this schema:

Schema:
{{schema}}

Query: {{query}}

{{#if instructions}}{{instructions}}

{{/if}}Return only valid JSON that matches the schema exactly.`

var promptTemplate = template.Must(template.NewEngine().Compile("extract", promptText))

// BuildPrompt renders the extraction prompt. It fails with ErrInvalidInput
// for an empty or whitespace-only query and for a nil or malformed schema.
// The output depends only on its arguments.
func BuildPrompt(query string, s *schema.Schema, instructions string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query must be a non-empty string", ErrInvalidInput)
	}
	if s == nil {
		return "", fmt.Errorf("%w: schema is required", ErrInvalidInput)
	}
	if err := s.Check(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	doc, err := s.MarshalJSONSchema()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return promptTemplate.Execute(map[string]any{
		"schema":       string(doc),
		"query":        query,
		"instructions": strings.TrimSpace(instructions),
	})
}
