package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "barber_booking"

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	AvailabilityDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_compute_seconds",
			Help:      "Time spent computing the free slots of one barber day.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		},
	)

	AvailabilitySlots = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_slots",
			Help:      "Number of slots returned per availability query.",
			Buckets:   prometheus.LinearBuckets(0, 8, 8),
		},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	AuditLogsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_logs_purged_total",
			Help:      "Audit rows removed by the retention job.",
		},
	)
)

// Booking outcomes.
const (
	OutcomeCreated     = "created"
	OutcomeUnavailable = "slot_unavailable"
	OutcomeLocked      = "slot_locked"
	OutcomeConflict    = "time_conflict"
	OutcomeCancelled   = "cancelled"
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
