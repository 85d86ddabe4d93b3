package domain

import "time"

// DefaultRiderCapacity is the maximum number of concurrently active
// assignments a rider may hold unless configured otherwise.
const DefaultRiderCapacity = 3

// Rider represents a delivery rider. CurrentOrders is derived from the
// count of the rider's undelivered assignments and is never stored.
type Rider struct {
	ID              string
	UserID          string
	Name            string
	Phone           string
	IsAvailable     bool
	CurrentLocation *Point
	Capacity        int
	CreatedAt       time.Time
	LastActiveAt    time.Time
}

// RiderLoad is a rider together with its derived active-assignment count,
// as returned by candidate-pool queries.
type RiderLoad struct {
	Rider
	CurrentOrders int
}

// HasSlack reports whether the rider can take another assignment.
func (r RiderLoad) HasSlack() bool {
	return r.CurrentOrders < r.Capacity
}
