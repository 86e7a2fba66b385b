// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_api_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_api_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cafe_api_http_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	CafeMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_api_cafe_mutations_total",
			Help: "Cafe writes by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// RecordRequest observes one finished HTTP request
func RecordRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordMutation counts a create, update or delete attempt
func RecordMutation(operation, outcome string) {
	CafeMutations.WithLabelValues(operation, outcome).Inc()
}
