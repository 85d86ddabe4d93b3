package handlers

import (
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

type orderDTO struct {
	ID              string     `json:"id"`
	OrderNumber     string     `json:"order_number"`
	CustomerID      string     `json:"customer_id"`
	Status          string     `json:"status"`
	FulfillmentType string     `json:"fulfillment_type"`
	PaymentMethod   string     `json:"payment_method"`
	PaymentStatus   string     `json:"payment_status"`
	PaymentVerified bool       `json:"payment_verified"`
	Total           int64      `json:"total"`
	AssignedRiderID *string    `json:"assigned_rider_id,omitempty"`
	CancelReason    *string    `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
}

func orderToDTO(o *domain.Order) orderDTO {
	return orderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          string(o.Status),
		FulfillmentType: string(o.FulfillmentType),
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentVerified: o.PaymentVerified,
		Total:           o.Total,
		AssignedRiderID: o.AssignedRiderID,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		DeliveredAt:     o.DeliveredAt,
	}
}

type assignmentDTO struct {
	OrderID     string     `json:"order_id"`
	RiderID     *string    `json:"rider_id,omitempty"`
	AssignedAt  time.Time  `json:"assigned_at"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

func assignmentToDTO(a domain.DeliveryAssignment) assignmentDTO {
	return assignmentDTO{
		OrderID:     a.OrderID,
		RiderID:     a.RiderID,
		AssignedAt:  a.AssignedAt,
		PickedUpAt:  a.PickedUpAt,
		DeliveredAt: a.DeliveredAt,
		Notes:       a.Notes,
	}
}

type transitionRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type deliverRequest struct {
	ProofRef *string `json:"proof_ref,omitempty"`
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type manualAssignRequest struct {
	OrderID string `json:"order_id"`
	RiderID string `json:"rider_id"`
}

type sweepResponse struct {
	Assigned   int      `json:"assigned"`
	Unassigned int      `json:"unassigned"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}
