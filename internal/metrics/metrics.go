package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the service counters on its own registry so test servers
// can be built side by side without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	Requests      *prometheus.CounterVec
	LatencyMS     *prometheus.HistogramVec
	OrdersCreated prometheus.Counter
	Payments      *prometheus.CounterVec
}

func New(service string) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: service,
		Name:      "payment_confirmations_total",
		Help:      "Payment confirmation attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(requests, latency, orders, payments)

	return &Metrics{
		registry:      registry,
		Requests:      requests,
		LatencyMS:     latency,
		OrdersCreated: orders,
		Payments:      payments,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
