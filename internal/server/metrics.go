package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus collectors on a private registry,
// so multiple servers in one process never collide.
type metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	moves         prometheus.Counter
	importBatches prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paintline_http_requests_total",
			Help: "HTTP requests served, by method, route, and status code.",
		}, []string{"method", "route", "status"}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paintline_moves_total",
			Help: "Successful stage transitions applied to the ledger.",
		}),
		importBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "paintline_import_batches_total",
			Help: "Import batches committed in full.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.moves,
		m.importBatches,
	)
	return m
}

func (m *metrics) countRequest(method, route string, status int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
