package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	submissionsTotal       *prometheus.CounterVec
	gradingDecisionsTotal  *prometheus.CounterVec
	emailDeliveriesTotal   *prometheus.CounterVec
	lifecycleEventsDropped prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the portal.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Submissions created or resubmitted, by kind.",
		}, []string{"kind"})

		gradingDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_grading_decisions_total",
			Help: "Grading decisions recorded, by outcome.",
		}, []string{"decision"})

		emailDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_email_deliveries_total",
			Help: "Transactional email delivery attempts, by result.",
		}, []string{"result"})

		lifecycleEventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portal_lifecycle_events_dropped_total",
			Help: "Lifecycle events that could not be published to the broker.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			submissionsTotal,
			gradingDecisionsTotal,
			emailDeliveriesTotal,
			lifecycleEventsDropped,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// Submissions exposes the counter for submission activity.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// GradingDecisions exposes the counter for grading outcomes.
func GradingDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingDecisionsTotal
}

// EmailDeliveries exposes the counter for email delivery attempts.
func EmailDeliveries() *prometheus.CounterVec {
	RegisterMetrics()
	return emailDeliveriesTotal
}

// LifecycleEventsDropped exposes the counter for dropped broker events.
func LifecycleEventsDropped() prometheus.Counter {
	RegisterMetrics()
	return lifecycleEventsDropped
}
