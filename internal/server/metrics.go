package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed by the query server,
// registered against their own registry so a process (or test) can build
// more than one Metrics without a duplicate-registration panic.
type Metrics struct {
	registry     *prometheus.Registry
	QueriesTotal *prometheus.CounterVec
	QueryLatency *prometheus.HistogramVec
	ResultsCount *prometheus.HistogramVec
}

// NewMetrics creates and registers the server's collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cometindex_queries_total",
				Help: "Total search queries served, by mode and status.",
			},
			[]string{"mode", "status"},
		),
		QueryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cometindex_query_latency_seconds",
				Help:    "Search query latency in seconds, by mode.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"mode"},
		),
		ResultsCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cometindex_results_count",
				Help:    "Number of results returned per search query, by mode.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"mode"},
		),
	}

	reg.MustRegister(m.QueriesTotal, m.QueryLatency, m.ResultsCount)
	return m
}

// Handler returns the Prometheus scrape handler for /metrics, serving only
// the collectors registered on m.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
