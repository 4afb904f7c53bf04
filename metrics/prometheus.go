package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector provides Prometheus metrics for extraction calls.
type PrometheusCollector struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	stageDuration     *prometheus.HistogramVec
	tokensTotal       *prometheus.CounterVec
	registry          *prometheus.Registry
}

// NewCollector creates a Prometheus collector registered on reg. A nil reg
// gets a private registry, available from Registry.
func NewCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	var own *prometheus.Registry
	if reg == nil {
		own = prometheus.NewRegistry()
		reg = own
	}

	buckets := []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0}

	c := &PrometheusCollector{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptuner_operations_total",
				Help: "Total number of operations by type and outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptuner_operation_duration_seconds",
				Help:    "End-to-end duration of operations",
				Buckets: buckets,
			},
			[]string{"operation"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "promptuner_stage_duration_seconds",
				Help:    "Duration of operation stages",
				Buckets: buckets,
			},
			[]string{"operation", "stage"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "promptuner_tokens_total",
				Help: "Model tokens consumed by provider and direction",
			},
			[]string{"provider", "direction"},
		),
		registry: own,
	}

	for _, col := range []prometheus.Collector{c.operationsTotal, c.operationDuration, c.stageDuration, c.tokensTotal} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordOperation counts an operation and observes its duration.
func (m *PrometheusCollector) RecordOperation(ctx context.Context, operation, status string, d time.Duration) {
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordStage observes the duration of a stage.
func (m *PrometheusCollector) RecordStage(ctx context.Context, operation, stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(operation, stage).Observe(d.Seconds())
}

// RecordTokens adds token usage.
func (m *PrometheusCollector) RecordTokens(ctx context.Context, provider string, input, output int) {
	if input > 0 {
		m.tokensTotal.WithLabelValues(provider, "input").Add(float64(input))
	}
	if output > 0 {
		m.tokensTotal.WithLabelValues(provider, "output").Add(float64(output))
	}
}

// Registry returns the private registry, or nil when the collector was
// registered on a caller-supplied Registerer.
func (m *PrometheusCollector) Registry() *prometheus.Registry {
	return m.registry
}

var _ Collector = (*PrometheusCollector)(nil)
