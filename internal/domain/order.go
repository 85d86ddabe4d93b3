package domain

import "time"

type (
	// OrderStatus represents the lifecycle status of an order.
	OrderStatus string
	// FulfillmentType represents how an order reaches the customer.
	FulfillmentType string
	// PaymentMethod represents how an order is paid.
	PaymentMethod string
	// PaymentStatus represents the state of an order's payment.
	PaymentStatus string
)

// Order lifecycle statuses.
const (
	OrderPending        OrderStatus = "pending"
	OrderPreparing      OrderStatus = "preparing"
	OrderReadyForPickup OrderStatus = "ready_for_pickup"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// Fulfillment types.
const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// Payment methods.
const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentGCash  PaymentMethod = "gcash"
	PaymentCard   PaymentMethod = "card"
	PaymentPayPal PaymentMethod = "paypal"
)

// Payment statuses.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order represents a customer order. Status, payment_status and
// payment_verified are owned exclusively by the lifecycle service;
// AssignedRiderID is a read-only projection of the active assignment.
type Order struct {
	ID              string
	OrderNumber     string
	CustomerID      string
	Status          OrderStatus
	FulfillmentType FulfillmentType
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	PaymentVerified bool
	Subtotal        int64
	DeliveryFee     int64
	Tax             int64
	Discount        int64
	Total           int64
	DeliveryPoint   *Point
	AssignedRiderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PreparingAt     *time.Time
	ReadyAt         *time.Time
	OutAt           *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    *string
}

// StatusEvent is one audit-trail entry for a genuine status change.
type StatusEvent struct {
	ID         int64
	OrderID    string
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Actor      Actor
	Notes      string
	CreatedAt  time.Time
}

// allowedTransitions encodes the order status flow as a directed graph.
// Cancelled is reachable from every non-terminal state; delivered and
// cancelled are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:        {OrderPreparing, OrderCancelled},
	OrderPreparing:      {OrderReadyForPickup, OrderCancelled},
	OrderReadyForPickup: {OrderOutForDelivery, OrderCancelled},
	OrderOutForDelivery: {OrderDelivered, OrderCancelled},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

// CanTransition reports whether from → to is an allowed status transition.
// A same-status call is allowed; callers treat it as a no-op.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Valid reports whether the status is a member of the enum.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReadyForPickup,
		OrderOutForDelivery, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ParseOrderStatus maps an incoming status label to the internal enum.
// The customer-facing "confirmed" label collapses onto preparing; the
// two labels name the same internal state.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	if raw == "confirmed" {
		return OrderPreparing, true
	}
	s := OrderStatus(raw)
	if s.Valid() {
		return s, true
	}
	return "", false
}

// Valid reports whether the fulfillment type is a member of the enum.
func (f FulfillmentType) Valid() bool {
	return f == FulfillmentDelivery || f == FulfillmentPickup
}

// Valid reports whether the payment method is a member of the enum.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentGCash, PaymentCard, PaymentPayPal:
		return true
	}
	return false
}
