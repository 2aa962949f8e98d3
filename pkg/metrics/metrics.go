// Package metrics defines the Prometheus metric collectors used by the catalog
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	CatalogLoadsTotal    *prometheus.CounterVec
	CatalogLoadDuration  prometheus.Histogram
	CatalogEntries       *prometheus.GaugeVec
	CatalogSkippedLines  prometheus.Gauge
	QueriesTotal         *prometheus.CounterVec
	QueryLatency         *prometheus.HistogramVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	ExportsTotal         *prometheus.CounterVec
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		CatalogLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_loads_total",
				Help: "Total catalog loads by status (ok, error).",
			},
			[]string{"status"},
		),
		CatalogLoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_load_duration_seconds",
				Help:    "Time to read, assemble and index the game database.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		CatalogEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catalog_entries",
				Help: "Number of entries in the current catalog by collection (games, tags, genres).",
			},
			[]string{"collection"},
		),
		CatalogSkippedLines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_skipped_lines",
				Help: "Lines dropped by the last lenient catalog load.",
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_queries_total",
				Help: "Total catalog queries by kind and result (hit, empty, error).",
			},
			[]string{"kind", "result"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_query_latency_seconds",
				Help:    "Catalog query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
			[]string{"kind"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses.",
			},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_exports_total",
				Help: "Total catalog exports by target and status.",
			},
			[]string{"target", "status"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.CatalogLoadsTotal,
		m.CatalogLoadDuration,
		m.CatalogEntries,
		m.CatalogSkippedLines,
		m.QueriesTotal,
		m.QueryLatency,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.ExportsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
