package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewAssignmentsTotal returns a Prometheus counter for committed rider assignments
func NewAssignmentsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignments_total",
		Help: "Total number of committed rider assignments",
	})
}

// NewAssignmentConflictsTotal returns a Prometheus counter for lost assignment-claim races
func NewAssignmentConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_conflicts_total",
		Help: "Total number of assignment claims lost to a concurrent caller",
	})
}

// NewUnassignedOrders returns a Prometheus gauge for the unassigned backlog after the last sweep
func NewUnassignedOrders() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "unassigned_orders",
		Help: "Orders left without a rider after the most recent sweep",
	})
}

// NewNotificationRetriesTotal returns a Prometheus counter for notification send retries
func NewNotificationRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notification_retries_total",
		Help: "Total number of retry attempts against the notification sink",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
