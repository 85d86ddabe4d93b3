package domain

import "time"

// DeliveryAssignment binds one order to one rider for a single delivery
// attempt. At most one assignment per order may be active (rider set,
// delivered_at null). Rows are never deleted; delivered rows are history.
type DeliveryAssignment struct {
	ID          int64
	OrderID     string
	RiderID     *string
	AssignedAt  time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	ProofRef    *string
	Notes       string
}

// Active reports whether the assignment is claimed and not yet delivered.
func (a DeliveryAssignment) Active() bool {
	return a.RiderID != nil && a.DeliveredAt == nil
}

// BelongsTo reports whether the assignment is claimed by the given rider.
func (a DeliveryAssignment) BelongsTo(riderID string) bool {
	return a.RiderID != nil && *a.RiderID == riderID
}

// SweepReport summarises one assignment sweep. Partial failure is data,
// not an error: unassignable orders are counted, not raised.
type SweepReport struct {
	Assigned   int
	Unassigned int
	Failed     int
	Errors     []string
}
