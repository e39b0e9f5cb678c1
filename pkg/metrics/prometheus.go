// Package metrics provides Prometheus metrics for the radar stat card service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Submission flow
	submissions        prometheus.Counter
	submissionFailures *prometheus.CounterVec
	uploadBytes        prometheus.Histogram
	chartRenderLatency prometheus.Histogram

	// Leaderboard store
	storeUpsertLatency  prometheus.Histogram
	storeQueryLatency   prometheus.Histogram
	storeMalformedLoads prometheus.Counter
	totalNames          prometheus.Gauge
	leaderboardQueries  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "radar",
		subsystem:        "statcard",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounter(m.counterOpts(
		"submissions_total", "Total number of stat card submissions recorded"))
	m.submissionFailures = auto.NewCounterVec(m.counterOpts(
		"submission_failures_total", "Submissions that failed, by stage"), []string{"stage"})
	m.uploadBytes = auto.NewHistogram(m.histogramOpts(
		"upload_bytes", "Size of stored photo uploads in bytes",
		prometheus.ExponentialBuckets(1024, 4, 8)))
	m.chartRenderLatency = auto.NewHistogram(m.histogramOpts(
		"chart_render_latency_milliseconds", "Radar chart render and write latency in milliseconds", m.histogramBuckets))

	m.storeUpsertLatency = auto.NewHistogram(m.histogramOpts(
		"store_upsert_latency_milliseconds", "Leaderboard upsert latency in milliseconds", m.histogramBuckets))
	m.storeQueryLatency = auto.NewHistogram(m.histogramOpts(
		"store_query_latency_milliseconds", "Leaderboard query latency in milliseconds", m.histogramBuckets))
	m.storeMalformedLoads = auto.NewCounter(m.counterOpts(
		"store_malformed_loads_total", "Loads that found unreadable leaderboard data and treated it as empty"))
	m.totalNames = auto.NewGauge(m.gaugeOpts(
		"total_names", "Number of distinct names on the leaderboard"))
	m.leaderboardQueries = auto.NewCounterVec(m.counterOpts(
		"leaderboard_queries_total", "Leaderboard queries by category"), []string{"category"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
}

// RecordSubmission increments the recorded submissions counter.
func RecordSubmission() {
	if globalManager.enabled {
		globalManager.submissions.Inc()
	}
}

// RecordSubmissionFailure counts a failed submission at the given stage
// (upload, store, chart, validate).
func RecordSubmissionFailure(stage string) {
	if globalManager.enabled {
		globalManager.submissionFailures.WithLabelValues(stage).Inc()
	}
}

// RecordUploadBytes records the size of a stored upload.
func RecordUploadBytes(n int64) {
	if globalManager.enabled {
		globalManager.uploadBytes.Observe(float64(n))
	}
}

// RecordChartRenderLatency records chart rendering latency in milliseconds.
func RecordChartRenderLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.chartRenderLatency.Observe(latencyMs)
	}
}

// RecordStoreUpsertLatency records leaderboard upsert latency in milliseconds.
func RecordStoreUpsertLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeUpsertLatency.Observe(latencyMs)
	}
}

// RecordStoreQueryLatency records leaderboard query latency in milliseconds.
func RecordStoreQueryLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.storeQueryLatency.Observe(latencyMs)
	}
}

// RecordMalformedLoad counts a load that fell back to an empty leaderboard.
func RecordMalformedLoad() {
	if globalManager.enabled {
		globalManager.storeMalformedLoads.Inc()
	}
}

// UpdateTotalNames sets the distinct-name gauge.
func UpdateTotalNames(count int) {
	if globalManager.enabled {
		globalManager.totalNames.Set(float64(count))
	}
}

// RecordLeaderboardQuery counts a leaderboard query for category.
func RecordLeaderboardQuery(category string) {
	if globalManager.enabled {
		globalManager.leaderboardQueries.WithLabelValues(category).Inc()
	}
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByComponent counts an error for a component.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the custom registry that holds the service metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
