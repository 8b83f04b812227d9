package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the order workflow engine.
type Metrics struct {
	SubmissionsAccepted    prometheus.Counter
	SubmissionsRejected    prometheus.Counter
	ValidationErrors       prometheus.Histogram
	TransitionsApplied     *prometheus.CounterVec
	TransitionsRejected    *prometheus.CounterVec
	NotificationsRequested *prometheus.CounterVec
	TransitionDurationMs   prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "order_gateway_submissions_accepted_total",
			Help: "Activation submissions that passed template validation",
		}),
		SubmissionsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "order_gateway_submissions_rejected_total",
			Help: "Activation submissions rejected by template validation",
		}),
		ValidationErrors: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_gateway_validation_errors_per_submission",
			Help:    "Number of field errors per rejected submission",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "order_gateway_transitions_applied_total",
			Help: "Accepted order state transitions by target state",
		}, []string{"to_state"}),
		TransitionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "order_gateway_transitions_rejected_total",
			Help: "Rejected order state transitions by reason",
		}, []string{"reason"}),
		NotificationsRequested: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "order_gateway_notifications_requested_total",
			Help: "Notification requests produced by accepted transitions",
		}, []string{"template"}),
		TransitionDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_gateway_transition_duration_ms",
			Help:    "Latency of transition handling in milliseconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		}),
	}
}
