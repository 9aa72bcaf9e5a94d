// Package observability provides metrics and distributed tracing for the
// archive server.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// MetricsPath is the HTTP path for the metrics endpoint (default: /metrics)
	MetricsPath string
	// MetricsPort is the port for the metrics server (default: 9090)
	MetricsPort int

	// Namespace is the Prometheus namespace (default: aetherius)
	Namespace string
	// HistogramBuckets are latency buckets in milliseconds
	HistogramBuckets []float64

	// ConstLabels are added to every metric
	ConstLabels prometheus.Labels
}

// Metrics records archive server metrics in its own Prometheus registry
type Metrics struct {
	config   MetricsConfig
	registry *prometheus.Registry
	server   *http.Server

	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	toolCallDuration     *prometheus.HistogramVec
	toolCallTotal        *prometheus.CounterVec
	resourceReadDuration *prometheus.HistogramVec
	searchResults        prometheus.Histogram
	documentsIndexed     prometheus.Gauge
	errorTotal           *prometheus.CounterVec
}

// NewMetrics creates a metrics provider with its collectors registered
func NewMetrics(config MetricsConfig) (*Metrics, error) {
	if config.Namespace == "" {
		config.Namespace = "aetherius"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.HistogramBuckets == nil {
		// Default buckets for milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}
	}
	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	config.ConstLabels["service"] = config.ServiceName
	config.ConstLabels["version"] = config.ServiceVersion
	if config.Environment != "" {
		config.ConstLabels["environment"] = config.Environment
	}

	m := &Metrics{
		config:   config,
		registry: prometheus.NewRegistry(),
	}
	m.initializeMetrics()

	if err := m.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return m, nil
}

func (m *Metrics) initializeMetrics() {
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Name:        "request_duration_milliseconds",
			Help:        "Duration of MCP requests in milliseconds",
			Buckets:     m.config.HistogramBuckets,
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	m.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Name:        "request_total",
			Help:        "Total number of MCP requests",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	m.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Name:        "tool_call_duration_milliseconds",
			Help:        "Duration of tool invocations in milliseconds",
			Buckets:     m.config.HistogramBuckets,
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	m.toolCallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Name:        "tool_call_total",
			Help:        "Total number of tool invocations",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"tool", "status"},
	)

	m.resourceReadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Name:        "resource_read_duration_milliseconds",
			Help:        "Duration of resource reads in milliseconds",
			Buckets:     m.config.HistogramBuckets,
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"status"},
	)

	m.searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   m.config.Namespace,
			Name:        "search_results",
			Help:        "Number of results returned by similarity searches",
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 50},
			ConstLabels: m.config.ConstLabels,
		},
	)

	m.documentsIndexed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   m.config.Namespace,
			Name:        "documents_indexed",
			Help:        "Number of documents currently in the index",
			ConstLabels: m.config.ConstLabels,
		},
	)

	m.errorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.config.Namespace,
			Name:        "error_total",
			Help:        "Total number of errors by category",
			ConstLabels: m.config.ConstLabels,
		},
		[]string{"category"},
	)
}

func (m *Metrics) registerMetrics() error {
	collectors := []prometheus.Collector{
		m.requestDuration,
		m.requestTotal,
		m.toolCallDuration,
		m.toolCallTotal,
		m.resourceReadDuration,
		m.searchResults,
		m.documentsIndexed,
		m.errorTotal,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one dispatched MCP request
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	m.requestDuration.WithLabelValues(method, status).Observe(ms)
	m.requestTotal.WithLabelValues(method, status).Inc()
}

// RecordToolCall records one tool invocation
func (m *Metrics) RecordToolCall(tool, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	m.toolCallDuration.WithLabelValues(tool, status).Observe(ms)
	m.toolCallTotal.WithLabelValues(tool, status).Inc()
}

// RecordResourceRead records one resource read
func (m *Metrics) RecordResourceRead(status string, duration time.Duration) {
	m.resourceReadDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

// RecordSearch records the result count of a similarity search
func (m *Metrics) RecordSearch(resultCount int) {
	m.searchResults.Observe(float64(resultCount))
}

// SetDocumentsIndexed updates the indexed-document gauge
func (m *Metrics) SetDocumentsIndexed(count int) {
	m.documentsIndexed.Set(float64(count))
}

// RecordError increments the error counter for a category
func (m *Metrics) RecordError(category string) {
	m.errorTotal.WithLabelValues(category).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Start serves the metrics endpoint on the configured port until the
// server is shut down
func (m *Metrics) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(m.config.MetricsPath, m.Handler())

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", m.config.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}

// Shutdown stops the metrics server
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
