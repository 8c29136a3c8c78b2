package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostly_bookings_created_total",
			Help: "Pending bookings written to the ledger",
		},
		[]string{"event_id"},
	)

	bookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostly_booking_rejections_total",
			Help: "Booking attempts rejected before commit",
		},
		[]string{"reason"},
	)

	reconcileApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostly_reconcile_applied_total",
			Help: "Ledger changes that produced an analytics delta",
		},
		[]string{"direction"},
	)

	reconcileSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostly_reconcile_skipped_total",
			Help: "Ledger changes rejected by the idempotence guard",
		},
	)

	backfillRepublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostly_backfill_republished_total",
			Help: "Uncounted confirmed bookings re-emitted by the backfill sweep",
		},
	)

	readRepairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostly_analytics_read_repairs_total",
			Help: "Metadata self-healing attempts on analytics reads",
		},
		[]string{"outcome"},
	)

	bookingTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostly_booking_transaction_seconds",
			Help:    "Duration of the atomic booking transaction",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)
)

// TrackBookingCreated records a successfully committed pending booking.
func TrackBookingCreated(eventID string) {
	bookingsCreated.WithLabelValues(eventID).Inc()
}

// TrackBookingRejected records a booking attempt that failed validation,
// inventory, or host resolution.
func TrackBookingRejected(reason string) {
	bookingRejections.WithLabelValues(reason).Inc()
}

// TrackReconcileApplied records an applied analytics delta. Direction is
// "increment" or "decrement".
func TrackReconcileApplied(direction string) {
	reconcileApplied.WithLabelValues(direction).Inc()
}

// TrackReconcileSkipped records a trigger invocation the guard rejected.
func TrackReconcileSkipped() {
	reconcileSkipped.Inc()
}

// TrackBackfillRepublished records a change re-emitted by the backfill
// sweep after the original publish was lost.
func TrackBackfillRepublished() {
	backfillRepublished.Inc()
}

// TrackReadRepair records a self-healing attempt. Outcome is "repaired",
// "failed", or "clean".
func TrackReadRepair(outcome string) {
	readRepairs.WithLabelValues(outcome).Inc()
}

// ObserveBookingTransaction records the booking transaction duration.
func ObserveBookingTransaction(seconds float64) {
	bookingTxDuration.Observe(seconds)
}
