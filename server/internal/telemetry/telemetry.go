package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's operational instruments. All of them are
// exported on /metrics in the standard text exposition.
type Metrics struct {
	registry *prometheus.Registry

	// Requests counts API requests served, labelled by endpoint.
	Requests *prometheus.CounterVec

	// Errors counts requests that ended in a non-2xx response.
	Errors prometheus.Counter

	// StreamClients tracks live websocket stream subscribers.
	StreamClients prometheus.Gauge

	// DatasetReloads counts successful dataset hot reloads.
	DatasetReloads prometheus.Counter
}

// New creates and registers the server metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webpulse_http_requests_total",
			Help: "API requests served.",
		}, []string{"endpoint"}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpulse_http_errors_total",
			Help: "Requests ending in a non-2xx response.",
		}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "webpulse_stream_clients",
			Help: "Live websocket stream subscribers.",
		}),
		DatasetReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpulse_dataset_reloads_total",
			Help: "Successful dataset hot reloads.",
		}),
	}

	reg.MustRegister(m.Requests, m.Errors, m.StreamClients, m.DatasetReloads)
	return m
}

// Handler returns the /metrics exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
