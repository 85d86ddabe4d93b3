package kafka

import (
	"strings"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/orders"
)

// EventDTO is the wire form of one change-feed entry.
type EventDTO struct {
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

// ToDomain converts EventDTO to orders.Event.
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:         strings.TrimSpace(dto.OrderID),
		OrderNumber:     strings.TrimSpace(dto.OrderNumber),
		Status:          strings.TrimSpace(dto.Status),
		CustomerID:      strings.TrimSpace(dto.CustomerID),
		FulfillmentType: strings.TrimSpace(dto.FulfillmentType),
		PaymentMethod:   strings.TrimSpace(dto.PaymentMethod),
		Total:           dto.Total,
		DeliveryLat:     dto.DeliveryLat,
		DeliveryLng:     dto.DeliveryLng,
		Reason:          strings.TrimSpace(dto.Reason),
		CreatedAt:       dto.CreatedAt,
		OccurredAt:      dto.OccurredAt,
	}
}
