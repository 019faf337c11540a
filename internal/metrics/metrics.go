// Package metrics holds the Prometheus collectors shared by the HTTP layer,
// the services and the cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	AuthEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Signup and login attempts by outcome",
		},
		[]string{"event", "result"},
	)
	TaskCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_cache_requests_total",
			Help: "Task list cache lookups by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDuration)
	prometheus.MustRegister(AuthEvents)
	prometheus.MustRegister(TaskCacheRequests)
}
