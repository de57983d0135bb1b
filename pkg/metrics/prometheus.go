// Package metrics provides Prometheus metrics for the pulse wellbeing
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus instruments for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	registry         prometheus.Registerer

	// Evaluation pipeline
	evaluationsTotal   prometheus.Counter
	evaluationDuration prometheus.Histogram
	compositeScore     prometheus.Histogram
	recommendations    *prometheus.CounterVec
	degradedSources    *prometheus.CounterVec
	refreshDuplicates  prometheus.Counter

	// Source fetching and caching
	sourceFetches      *prometheus.CounterVec
	sourceFetchLatency *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter

	// Queue and workers
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter
	queueLatency     prometheus.Histogram
	workerActive     prometheus.Gauge
	workerErrors     prometheus.Counter
	workerLatency    prometheus.Histogram

	// Service state
	evaluatedUsers prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// Process health
	systemMemory     prometheus.Gauge
	systemGoroutines prometheus.Gauge
}

// Global manager on a custom registry, so the default Go collectors do not
// pollute /healthz output.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pulse",
		subsystem:        "wellbeing",
		histogramBuckets: prometheus.DefBuckets,
		scoreBuckets:     prometheus.LinearBuckets(0, 10, 11),
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

	m.evaluationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evaluations_total",
		Help: "Total number of completed wellbeing evaluations",
	})
	m.evaluationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "evaluation_duration_milliseconds",
		Help:    "Wall time of one evaluation including source fetches",
		Buckets: m.histogramBuckets,
	})
	m.compositeScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "composite_score",
		Help:    "Distribution of composite wellbeing scores",
		Buckets: m.scoreBuckets,
	})
	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recommendations_total",
		Help: "Recommendations emitted, by priority",
	}, []string{"priority"})
	m.degradedSources = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "degraded_sources_total",
		Help: "Malformed payloads normalized to degraded metrics, by source",
	}, []string{"source"})
	m.refreshDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "refresh_duplicates_total",
		Help: "Refresh jobs dropped as duplicates inside one cache window",
	})

	m.sourceFetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "source_fetches_total",
		Help: "Upstream source fetches, by source and outcome",
	}, []string{"source", "outcome"})
	m.sourceFetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "source_fetch_latency_milliseconds",
		Help:    "Latency of upstream source fetches",
		Buckets: m.histogramBuckets,
	}, []string{"source"})
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_hits_total",
		Help: "Source payloads served from the response cache",
	})
	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "cache_misses_total",
		Help: "Source payloads that required an upstream fetch",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of queued refresh jobs",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Maximum refresh queue capacity",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization_ratio",
		Help: "Refresh queue utilization (size / capacity)",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_total",
		Help: "Refresh jobs enqueued",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeue_total",
		Help: "Refresh jobs dequeued by workers",
	})
	m.queueEnqueueErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Refresh jobs rejected at enqueue time",
	})
	m.queueLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "queue_enqueue_latency_milliseconds",
		Help:    "Time spent handing a refresh job to the queue",
		Buckets: m.histogramBuckets,
	})
	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_active_count",
		Help: "Number of refresh workers",
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Refresh jobs that failed in a worker",
	})
	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_milliseconds",
		Help:    "Time a worker spends on one refresh job",
		Buckets: m.histogramBuckets,
	})

	m.evaluatedUsers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evaluated_users",
		Help: "Users with a stored evaluation",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests, by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_by_endpoint_total",
		Help: "HTTP errors, by endpoint and method",
	}, []string{"endpoint", "method", "error_type"})
	m.errorsByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_by_type_total",
		Help: "Errors grouped by type and severity",
	}, []string{"error_type", "severity"})

	m.systemMemory = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current heap allocation",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current goroutine count",
	})
}

// Package-level helpers on the global manager.

// RecordEvaluation counts one completed evaluation and its duration.
func RecordEvaluation(durationMs float64) {
	globalManager.evaluationsTotal.Inc()
	globalManager.evaluationDuration.Observe(durationMs)
}

// ObserveCompositeScore records a composite score into the distribution.
func ObserveCompositeScore(value int) {
	globalManager.compositeScore.Observe(float64(value))
}

// RecordRecommendation counts an emitted recommendation by priority.
func RecordRecommendation(priority string) {
	globalManager.recommendations.WithLabelValues(priority).Inc()
}

// RecordDegradedSource counts a malformed payload by source.
func RecordDegradedSource(source string) {
	globalManager.degradedSources.WithLabelValues(source).Inc()
}

// RecordRefreshDuplicate counts a deduplicated refresh request.
func RecordRefreshDuplicate() { globalManager.refreshDuplicates.Inc() }

// RecordSourceFetch counts one upstream fetch attempt by outcome.
func RecordSourceFetch(source, outcome string) {
	globalManager.sourceFetches.WithLabelValues(source, outcome).Inc()
}

// ObserveSourceFetchLatency records the latency of one upstream fetch.
func ObserveSourceFetchLatency(source string, durationMs float64) {
	globalManager.sourceFetchLatency.WithLabelValues(source).Observe(durationMs)
}

// RecordCacheHit counts a response-cache hit.
func RecordCacheHit() { globalManager.cacheHits.Inc() }

// RecordCacheMiss counts a response-cache miss.
func RecordCacheMiss() { globalManager.cacheMisses.Inc() }

// UpdateQueueSize sets the current refresh queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the refresh queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the refresh queue utilization ratio.
func UpdateQueueUtilization(ratio float64) { globalManager.queueUtilization.Set(ratio) }

// RecordQueueEnqueue counts a successful enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrs.Inc() }

// RecordQueueProcessingLatency records the time spent on one enqueue attempt.
func RecordQueueProcessingLatency(durationMs float64) {
	globalManager.queueLatency.Observe(durationMs)
}

// UpdateWorkerActiveCount sets the worker gauge.
func UpdateWorkerActiveCount(count int) { globalManager.workerActive.Set(float64(count)) }

// RecordWorkerError counts a failed refresh job.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordWorkerProcessingLatency records the time spent on one job.
func RecordWorkerProcessingLatency(durationMs float64) {
	globalManager.workerLatency.Observe(durationMs)
}

// UpdateEvaluatedUsers sets the stored-evaluation gauge.
func UpdateEvaluatedUsers(count int) { globalManager.evaluatedUsers.Set(float64(count)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an HTTP error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemory.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutines.Set(float64(count)) }
