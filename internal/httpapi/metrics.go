package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the Prometheus surface exposed at GET /metrics.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Handler         http.Handler
}

// NewMetrics registers the service's counters/histograms against the
// default registry and builds the /metrics handler.
func NewMetrics() *Metrics {
	requestsTotal := promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bidprice_requests_total",
		Help: "Total HTTP requests processed, by route and status class.",
	}, []string{"route", "status"})

	requestDuration := promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bidprice_request_duration_seconds",
		Help:    "Request latency in seconds, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	return &Metrics{
		RequestsTotal:   requestsTotal,
		RequestDuration: requestDuration,
		Handler:         promhttp.Handler(),
	}
}
