// Package metrics provides Prometheus metrics for the store comparison pipeline.
package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default stage duration buckets in milliseconds.
var defaultDurationBuckets = []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000} //nolint:gochecknoglobals // constant bucket layout

// Manager owns every pipeline metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ingestion
	rowsLoaded        *prometheus.CounterVec
	recordsNormalized prometheus.Counter

	// Stages
	stageDuration *prometheus.HistogramVec

	// Outcomes
	pipelineErrors *prometheus.CounterVec
	runs           *prometheus.CounterVec
	chartsRendered *prometheus.CounterVec

	// Business
	storeRevenue *prometheus.GaugeVec

	// System
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "alurastore",
		subsystem:        "pipeline",
		histogramBuckets: defaultDurationBuckets,
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_loaded_total",
		Help:        "Rows read from each store source",
		ConstLabels: labels,
	}, []string{"store"})

	m.recordsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_normalized_total",
		Help:        "Sale records that passed date normalization",
		ConstLabels: labels,
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.pipelineErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Fatal pipeline errors by kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Pipeline runs by final status",
		ConstLabels: labels,
	}, []string{"status"})

	m.chartsRendered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "charts_rendered_total",
		Help:        "Chart images written",
		ConstLabels: labels,
	}, []string{"chart"})

	m.storeRevenue = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_revenue",
		Help:        "Total revenue per store from the last run",
		ConstLabels: labels,
	}, []string{"store"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated when the run finished",
		ConstLabels: labels,
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Goroutines alive when the run finished",
		ConstLabels: labels,
	})

	m.gcPauseTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_avg_milliseconds",
		Help:        "Average GC pause over the process lifetime",
		ConstLabels: labels,
	})
}

// RecordRowsLoaded adds n rows loaded for store.
func (m *Manager) RecordRowsLoaded(store string, n int) {
	if m.enabled {
		m.rowsLoaded.WithLabelValues(store).Add(float64(n))
	}
}

// RecordRecordsNormalized adds n normalized records.
func (m *Manager) RecordRecordsNormalized(n int) {
	if m.enabled {
		m.recordsNormalized.Add(float64(n))
	}
}

// RecordStageDuration observes how long a stage took.
func (m *Manager) RecordStageDuration(stage string, ms float64) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(ms)
	}
}

// RecordPipelineError counts a fatal error of the given kind.
func (m *Manager) RecordPipelineError(kind string) {
	if m.enabled {
		m.pipelineErrors.WithLabelValues(kind).Inc()
	}
}

// RecordRun counts a finished run.
func (m *Manager) RecordRun(status string) {
	if m.enabled {
		m.runs.WithLabelValues(status).Inc()
	}
}

// RecordChartRendered counts a written chart.
func (m *Manager) RecordChartRendered(chart string) {
	if m.enabled {
		m.chartsRendered.WithLabelValues(chart).Inc()
	}
}

// UpdateStoreRevenue sets the revenue gauge for store.
func (m *Manager) UpdateStoreRevenue(store string, revenue float64) {
	if m.enabled {
		m.storeRevenue.WithLabelValues(store).Set(revenue)
	}
}

// RecordRuntimeStats samples heap, goroutine and GC figures.
func (m *Manager) RecordRuntimeStats() {
	if !m.enabled {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.memoryUsage.Set(float64(ms.Alloc))
	m.goroutineCount.Set(float64(runtime.NumGoroutine()))
	if ms.NumGC > 0 {
		m.gcPauseTime.Set(float64(ms.PauseTotalNs) / float64(ms.NumGC) / nanosPerMilli)
	}
}

const nanosPerMilli = 1e6

// Package-level helpers on the global manager.

func RecordRowsLoaded(store string, n int)         { globalManager.RecordRowsLoaded(store, n) }
func RecordRecordsNormalized(n int)                { globalManager.RecordRecordsNormalized(n) }
func RecordStageDuration(stage string, ms float64) { globalManager.RecordStageDuration(stage, ms) }
func RecordPipelineError(kind string)              { globalManager.RecordPipelineError(kind) }
func RecordRun(status string)                      { globalManager.RecordRun(status) }
func RecordChartRendered(chart string)             { globalManager.RecordChartRendered(chart) }
func UpdateStoreRevenue(store string, v float64)   { globalManager.UpdateStoreRevenue(store, v) }
func RecordRuntimeStats()                          { globalManager.RecordRuntimeStats() }

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the global registry to path in the text exposition
// format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}
