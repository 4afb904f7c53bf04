// Package metrics records extraction outcomes.
//
// The extract and fewshot packages report through Collector. Use
// NewCollector for Prometheus metrics or NoopCollector (the default) to
// record nothing.
package metrics

import (
	"context"
	"time"
)

// Operation names.
const (
	OpExtract = "extract"
	OpParse   = "parse"
	OpFewShot = "fewshot"
	StatusOK  = "ok"
)

// Stage names.
const (
	StagePrompt   = "prompt"
	StageModel    = "model"
	StageParse    = "parse"
	StageValidate = "validate"
)

// Collector is the interface for metrics collection.
type Collector interface {
	// RecordOperation counts one finished operation. status is StatusOK or
	// an error code such as "no_json_found".
	RecordOperation(ctx context.Context, operation, status string, d time.Duration)

	// RecordStage observes the duration of one stage of an operation.
	RecordStage(ctx context.Context, operation, stage string, d time.Duration)

	// RecordTokens adds model token usage.
	RecordTokens(ctx context.Context, provider string, input, output int)
}
