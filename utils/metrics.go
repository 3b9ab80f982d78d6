package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	// Shield lifecycle metrics
	SweepsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shield_sweeps_total",
			Help: "Total number of inactivity sweeps executed",
		},
	)

	ActivationRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shield_activation_requests_total",
			Help: "Total number of activation requests created",
		},
	)

	ShieldTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shield_transitions_total",
			Help: "Total number of shield state transitions",
		},
		[]string{"from", "to"},
	)

	QuorumConfirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quorum_confirmations_total",
			Help: "Total number of guardian confirmations",
		},
		[]string{"outcome"}, // recorded, duplicate, rejected
	)

	// Token metrics
	TokensIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of emergency access tokens issued",
		},
	)

	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "access_token_verifications_total",
			Help: "Total number of access token verification attempts",
		},
		[]string{"result"}, // granted, denied, locked, needs_verification
	)

	TokensRevokedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_revoked_total",
			Help: "Total number of access tokens revoked",
		},
	)

	NotificationsEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_notifications_enqueued_total",
			Help: "Total number of guardian notification intents enqueued",
		},
		[]string{"kind"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"component", "error"},
	)
)

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackError increments the error counter by component and type
func TrackError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// TrackTokenVerification records the outcome of a verification attempt
func TrackTokenVerification(result string) {
	TokenVerificationsTotal.WithLabelValues(result).Inc()
}

// TrackShieldTransition records a state machine transition
func TrackShieldTransition(from, to string) {
	ShieldTransitionsTotal.WithLabelValues(from, to).Inc()
}

// TrackNotification records an enqueued notification intent
func TrackNotification(kind string) {
	NotificationsEnqueuedTotal.WithLabelValues(kind).Inc()
}
