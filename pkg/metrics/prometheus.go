// Package metrics provides Prometheus instrumentation for the linepulse service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Ingestion
	eventsIngested prometheus.Counter
	eventsRejected *prometheus.CounterVec
	batchSize      prometheus.Histogram
	resets         prometheus.Counter

	// Recompute (duration resolution + aggregation per request)
	recomputeDuration *prometheus.HistogramVec

	// Store
	storeAppendDuration prometheus.Histogram
	storedEvents        prometheus.Gauge
	workerCount         prometheus.Gauge
	stationCount        prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a custom registry, so the exposition endpoint
// carries only service metrics.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "linepulse",
		subsystem:        "factory",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)

	m.eventsIngested = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_ingested_total",
		Help:      "Events accepted and durably stored.",
	})
	m.eventsRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_rejected_total",
		Help:      "Events rejected during ingestion, by reason.",
	}, []string{"reason"})
	m.batchSize = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_size",
		Help:      "Number of records per batch ingestion request.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	})
	m.resets = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resets_total",
		Help:      "Reset-and-reseed operations performed.",
	})

	m.recomputeDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recompute_duration_seconds",
		Help:      "Time spent resolving durations and aggregating metrics, by scope.",
		Buckets:   m.histogramBuckets,
	}, []string{"scope"})

	m.storeAppendDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_append_duration_seconds",
		Help:      "Latency of durable event appends.",
		Buckets:   m.histogramBuckets,
	})
	m.storedEvents = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stored_events",
		Help:      "Events currently in the store.",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workers",
		Help:      "Workers in reference data.",
	})
	m.stationCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workstations",
		Help:      "Workstations in reference data.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by endpoint and method.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})
}

// Handler returns the exposition handler for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package-level helpers operating on the global manager.

func RecordEventIngested() {
	if globalManager.enabled {
		globalManager.eventsIngested.Inc()
	}
}

func RecordEventRejected(reason string) {
	if globalManager.enabled {
		globalManager.eventsRejected.WithLabelValues(reason).Inc()
	}
}

func ObserveBatchSize(n int) {
	if globalManager.enabled {
		globalManager.batchSize.Observe(float64(n))
	}
}

func RecordReset() {
	if globalManager.enabled {
		globalManager.resets.Inc()
	}
}

func ObserveRecompute(scope string, seconds float64) {
	if globalManager.enabled {
		globalManager.recomputeDuration.WithLabelValues(scope).Observe(seconds)
	}
}

func ObserveStoreAppend(seconds float64) {
	if globalManager.enabled {
		globalManager.storeAppendDuration.Observe(seconds)
	}
}

func UpdateStoredEvents(n int64) {
	if globalManager.enabled {
		globalManager.storedEvents.Set(float64(n))
	}
}

func UpdateWorkerCount(n int64) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(n))
	}
}

func UpdateStationCount(n int64) {
	if globalManager.enabled {
		globalManager.stationCount.Set(float64(n))
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func ObserveHTTPRequest(endpoint, method string, seconds float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
	}
}

// Handler exposes the global manager's registry.
func Handler() http.Handler {
	return globalManager.Handler()
}
