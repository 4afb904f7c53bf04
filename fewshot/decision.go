package fewshot

import "encoding/json"

// Actions a Decision may name.
const (
	ActionSearch    = "search"
	ActionExplain   = "explain"
	ActionRecommend = "recommend"
)

// Decision is the structured reply of the agent.
type Decision struct {
	Action     string  `json:"action" jsonschema:"enum=search,enum=explain,enum=recommend,description=Action to take: search or explain or recommend"`
	Reasoning  string  `json:"reasoning" jsonschema:"description=Why this action was chosen"`
	Confidence float64 `json:"confidence" jsonschema:"minimum=0,maximum=1,description=Confidence score between 0 and 1"`
}

// Example is one worked input/output pair shown to the model.
type Example struct {
	Input  string `json:"input" yaml:"input" toml:"input"`
	Output string `json:"output" yaml:"output" toml:"output"`
}

// NewExample renders d as the example output for input.
func NewExample(input string, d Decision) Example {
	out, _ := json.Marshal(d)
	return Example{Input: input, Output: string(out)}
}

// DefaultExamples returns the built-in examples, one per action.
func DefaultExamples() []Example {
	return []Example{
		{
			Input:  "What is machine learning?",
			Output: `{"action": "explain", "reasoning": "User asks for definition of a concept", "confidence": 0.9}`,
		},
		{
			Input:  "Find me Python tutorials",
			Output: `{"action": "search", "reasoning": "User wants to find resources", "confidence": 0.8}`,
		},
		{
			Input:  "Best IDE for Python?",
			Output: `{"action": "recommend", "reasoning": "User seeks recommendations", "confidence": 0.7}`,
		},
	}
}
