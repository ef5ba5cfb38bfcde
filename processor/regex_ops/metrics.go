package regexopsprocessor

import (
	"time"

	"github.com/c360/regexstream/metric"
	"github.com/prometheus/client_golang/prometheus"
)

// regexOpsMetrics holds Prometheus metrics for regex operation processing.
type regexOpsMetrics struct {
	// Transformation counters
	transformationsTotal *prometheus.CounterVec // By component
	recordsDropped       *prometheus.CounterVec // By component and reason

	// Operation errors
	errors *prometheus.CounterVec // By component and error_type

	// Configured pipeline size
	operationsConfigured *prometheus.GaugeVec // By component

	// Performance metrics
	transformationDuration *prometheus.HistogramVec // By component
	outputSize             *prometheus.HistogramVec // By component - output record size
}

// newRegexOpsMetrics creates and registers regex ops metrics with the provided registry.
func newRegexOpsMetrics(registry *metric.MetricsRegistry, componentName string) (*regexOpsMetrics, error) {
	if registry == nil {
		return nil, nil // Metrics disabled
	}

	m := &regexOpsMetrics{
		transformationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regexstream",
			Subsystem: "regex_ops",
			Name:      "transformations_total",
			Help:      "Total number of records transformed",
		}, []string{"component"}),

		recordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regexstream",
			Subsystem: "regex_ops",
			Name:      "records_dropped_total",
			Help:      "Total number of records dropped without publishing",
		}, []string{"component", "reason"}), // reason: invalid_utf8, parse

		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regexstream",
			Subsystem: "regex_ops",
			Name:      "errors_total",
			Help:      "Total number of processing errors",
		}, []string{"component", "error_type"}), // error_type: transform, publish

		operationsConfigured: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "regexstream",
			Subsystem: "regex_ops",
			Name:      "operations_configured",
			Help:      "Number of regex operations in the configured pipeline",
		}, []string{"component"}),

		transformationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "regexstream",
			Subsystem: "regex_ops",
			Name:      "transformation_duration_seconds",
			Help:      "Record transformation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1}, // Sub-millisecond to 100ms
		}, []string{"component"}),

		outputSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "regexstream",
			Subsystem: "regex_ops",
			Name:      "output_size_bytes",
			Help:      "Distribution of output record sizes in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 10), // 100B to ~100KB
		}, []string{"component"}),
	}

	// Register all metrics
	if err := registry.RegisterCounterVec("regex_ops", "transformations_total", m.transformationsTotal); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("regex_ops", "records_dropped", m.recordsDropped); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec("regex_ops", "errors", m.errors); err != nil {
		return nil, err
	}
	if err := registry.RegisterGaugeVec("regex_ops", "operations_configured", m.operationsConfigured); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogramVec("regex_ops", "transformation_duration", m.transformationDuration); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogramVec("regex_ops", "output_size", m.outputSize); err != nil {
		return nil, err
	}

	return m, nil
}

// recordTransformation records a successful record transformation.
func (m *regexOpsMetrics) recordTransformation(componentName string, duration time.Duration, outputSizeBytes int) {
	if m == nil {
		return
	}

	m.transformationsTotal.WithLabelValues(componentName).Inc()
	m.transformationDuration.WithLabelValues(componentName).Observe(duration.Seconds())
	m.outputSize.WithLabelValues(componentName).Observe(float64(outputSizeBytes))
}

// recordDrop records a record dropped without publishing.
func (m *regexOpsMetrics) recordDrop(componentName, reason string) {
	if m == nil {
		return
	}

	m.recordsDropped.WithLabelValues(componentName, reason).Inc()
}

// recordError records a processing error.
func (m *regexOpsMetrics) recordError(componentName, errorType string) {
	if m == nil {
		return
	}

	m.errors.WithLabelValues(componentName, errorType).Inc()
}

// recordOperationsConfigured records the size of the configured pipeline.
func (m *regexOpsMetrics) recordOperationsConfigured(componentName string, count int) {
	if m == nil {
		return
	}

	m.operationsConfigured.WithLabelValues(componentName).Set(float64(count))
}
