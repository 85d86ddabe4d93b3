package orders

import (
	"time"
)

// Event is one entry of the upstream order change feed. Only the fields
// the lifecycle core needs are decoded; payload fields beyond OrderID and
// Status are meaningful for "created" events only.
type Event struct {
	OrderID         string     `json:"order_id"`
	OrderNumber     string     `json:"order_number,omitempty"`
	Status          string     `json:"status"`
	CustomerID      string     `json:"customer_id,omitempty"`
	FulfillmentType string     `json:"fulfillment_type,omitempty"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	Total           int64      `json:"total,omitempty"`
	DeliveryLat     *float64   `json:"delivery_lat,omitempty"`
	DeliveryLng     *float64   `json:"delivery_lng,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	OccurredAt      *time.Time `json:"occurred_at,omitempty"`
}
