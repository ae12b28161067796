package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Singleton instance
	instance *PrometheusMetrics
	once     sync.Once
)

// PrometheusMetrics handles all metrics collection for the broker node
type PrometheusMetrics struct {
	// Cluster metrics
	ClusterNodesTotal prometheus.Gauge

	// Discovery metrics
	PeersDiscovered        prometheus.Gauge
	DiscoveryFailuresTotal *prometheus.CounterVec

	// Registration metrics
	RegistrationsTotal  *prometheus.CounterVec
	StartupDelaySeconds prometheus.Histogram

	// HTTP metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance
func NewPrometheusMetrics() *PrometheusMetrics {
	once.Do(func() {
		instance = &PrometheusMetrics{
			ClusterNodesTotal: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "cluster_nodes_total",
				Help: "The total number of nodes in the cluster",
			}),

			PeersDiscovered: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "discovery_peers",
				Help: "The number of peers returned by the last discovery run",
			}),
			DiscoveryFailuresTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "discovery_failures_total",
					Help: "The total number of failed peer discovery attempts",
				},
				[]string{"backend"},
			),

			RegistrationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "registrations_total",
					Help: "The total number of registration and unregistration attempts by outcome",
				},
				[]string{"operation", "outcome"},
			),
			StartupDelaySeconds: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "startup_delay_seconds",
				Help:    "The randomized delay applied before registration",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),

			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "requests_total",
					Help: "The total number of processed requests",
				},
				[]string{"method", "endpoint", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "request_duration_seconds",
					Help:    "The request latencies in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "endpoint"},
			),
			RequestsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "requests_in_flight",
				Help: "The number of requests currently being processed",
			}),
		}
	})

	return instance
}

// GetMetrics returns the singleton PrometheusMetrics instance
func GetMetrics() *PrometheusMetrics {
	if instance == nil {
		return NewPrometheusMetrics()
	}
	return instance
}

// SetClusterNodesTotal records the current cluster size
func (m *PrometheusMetrics) SetClusterNodesTotal(count int) {
	m.ClusterNodesTotal.Set(float64(count))
}

// SetPeersDiscovered records the size of the last discovery result
func (m *PrometheusMetrics) SetPeersDiscovered(count int) {
	m.PeersDiscovered.Set(float64(count))
}

// IncDiscoveryFailures counts a failed discovery attempt for a backend
func (m *PrometheusMetrics) IncDiscoveryFailures(backend string) {
	m.DiscoveryFailuresTotal.WithLabelValues(backend).Inc()
}

// RecordRegistration counts a register/unregister attempt by outcome
// (ok, failed, skipped)
func (m *PrometheusMetrics) RecordRegistration(operation, outcome string) {
	m.RegistrationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveStartupDelay records the randomized delay applied before
// registration
func (m *PrometheusMetrics) ObserveStartupDelay(seconds float64) {
	m.StartupDelaySeconds.Observe(seconds)
}

// RecordRequest counts a processed HTTP request
func (m *PrometheusMetrics) RecordRequest(method, endpoint, status string) {
	m.RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
}

// ObserveRequestDuration records the latency of an HTTP request
func (m *PrometheusMetrics) ObserveRequestDuration(method, endpoint string, seconds float64) {
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

// IncRequestsInFlight tracks the start of an HTTP request
func (m *PrometheusMetrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

// DecRequestsInFlight tracks the end of an HTTP request
func (m *PrometheusMetrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}

// RegisterMetricsHandler registers the Prometheus metrics handler with the HTTP server
func RegisterMetricsHandler(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
