// Package metrics defines the Prometheus instrumentation for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the barcode service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database metrics
	DatabaseConnections prometheus.Gauge

	// Business metrics
	BarcodeOperationsTotal  *prometheus.CounterVec
	BarcodeValidationErrors *prometheus.CounterVec
	BarcodesPerOwner        prometheus.Histogram
	ImportRowsTotal         *prometheus.CounterVec
	ImportDuration          prometheus.Histogram

	// Health metrics
	DependencyHealth *prometheus.GaugeVec
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcode_service_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "barcode_service_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "barcode_service_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		DatabaseConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "barcode_service_database_connections",
				Help: "Current number of database connections",
			},
		),

		BarcodeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcode_service_operations_total",
				Help: "Total number of barcode operations",
			},
			[]string{"operation", "status"},
		),
		BarcodeValidationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcode_service_validation_errors_total",
				Help: "Total number of rejected barcode values",
			},
			[]string{"type"},
		),
		BarcodesPerOwner: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "barcode_service_barcodes_per_owner",
				Help:    "Number of barcodes submitted per asset or kit",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
			},
		),
		ImportRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barcode_service_import_rows_total",
				Help: "Total number of import rows processed",
			},
			[]string{"status"},
		),
		ImportDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "barcode_service_import_duration_seconds",
				Help:    "Duration of spreadsheet imports in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		DependencyHealth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "barcode_service_dependency_health",
				Help: "Health status of dependencies (1 = healthy, 0 = unhealthy)",
			},
			[]string{"dependency"},
		),
	}
}

// Initialize sets up initial metric values.
func (m *Metrics) Initialize() {
	m.DependencyHealth.WithLabelValues("postgres").Set(0)
}

// UpdateDependencyHealth updates the health status of a dependency.
func (m *Metrics) UpdateDependencyHealth(dependency string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	m.DependencyHealth.WithLabelValues(dependency).Set(value)
}

// RecordOperation records a barcode operation outcome.
func (m *Metrics) RecordOperation(operation, status string) {
	if m.BarcodeOperationsTotal != nil {
		m.BarcodeOperationsTotal.WithLabelValues(operation, status).Inc()
	}
}
