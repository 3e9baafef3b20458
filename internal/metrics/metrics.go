// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obras_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Mutations counts successful entity changes.
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obras_mutations_total",
			Help: "Total number of entity mutations",
		},
		[]string{"entity", "operation"}, // entity: project, stage, material, labor, expense
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obras_validation_failures_total",
			Help: "Total number of rejected form submissions",
		},
		[]string{"entity"},
	)

	AdvisorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obras_advisor_calls_total",
			Help: "Total number of AI analysis requests by outcome",
		},
		[]string{"outcome"}, // success, cached, no_key, error, empty
	)

	AdvisorLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "obras_advisor_latency_seconds",
			Help:    "Latency of calls to the generative model",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obras_events_published_total",
			Help: "Project report events by publish status",
		},
		[]string{"status"}, // success, failed
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "obras_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	SuspiciousRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "obras_suspicious_requests_total",
			Help: "Requests matching a known attack pattern",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "obras_active_sessions",
			Help: "Number of live login sessions",
		},
	)
)

func RecordHTTPRequestDuration(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func IncrementMutation(entity, operation string) {
	Mutations.WithLabelValues(entity, operation).Inc()
}

func IncrementValidationFailure(entity string) {
	ValidationFailures.WithLabelValues(entity).Inc()
}

func RecordAdvisorCall(outcome string, d time.Duration) {
	AdvisorCalls.WithLabelValues(outcome).Inc()
	if d > 0 {
		AdvisorLatency.Observe(d.Seconds())
	}
}

func IncrementEventPublished(status string) {
	EventsPublished.WithLabelValues(status).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
