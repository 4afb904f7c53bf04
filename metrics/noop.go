package metrics

import (
	"context"
	"time"
)

// NoopCollector discards everything.
type NoopCollector struct{}

// NewNoopCollector creates a no-op collector
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordOperation does nothing.
func (n *NoopCollector) RecordOperation(ctx context.Context, operation, status string, d time.Duration) {
}

// RecordStage does nothing.
func (n *NoopCollector) RecordStage(ctx context.Context, operation, stage string, d time.Duration) {
}

// RecordTokens does nothing.
func (n *NoopCollector) RecordTokens(ctx context.Context, provider string, input, output int) {
}

var _ Collector = (*NoopCollector)(nil)
