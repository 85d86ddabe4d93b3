package lifecycle

import (
	"fmt"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
)

type statusMessage struct {
	Title   string
	Message string
	Kind    notify.Kind
}

// statusMessages is the customer-facing wording per status. Cancelled is
// handled separately so the reason can be included.
var statusMessages = map[domain.OrderStatus]statusMessage{
	domain.OrderPending: {
		Title:   "Order Received",
		Message: "We have received your order and are confirming it.",
		Kind:    notify.KindOrderUpdate,
	},
	domain.OrderPreparing: {
		Title:   "Order Confirmed",
		Message: "Your order is being prepared.",
		Kind:    notify.KindOrderUpdate,
	},
	domain.OrderReadyForPickup: {
		Title:   "Order Ready",
		Message: "Your order is ready for pickup.",
		Kind:    notify.KindOrderUpdate,
	},
	domain.OrderOutForDelivery: {
		Title:   "On The Way",
		Message: "Your order is out for delivery.",
		Kind:    notify.KindDelivery,
	},
	domain.OrderDelivered: {
		Title:   "Order Delivered",
		Message: "Your order has been delivered. Enjoy your meal!",
		Kind:    notify.KindDelivery,
	},
}

func messageFor(o *domain.Order, to domain.OrderStatus) notify.Notification {
	if to == domain.OrderCancelled {
		msg := "Your order has been cancelled."
		if o.CancelReason != nil && *o.CancelReason != "" {
			msg = fmt.Sprintf("Your order has been cancelled: %s", *o.CancelReason)
		}
		return notify.Notification{
			UserID:         o.CustomerID,
			Title:          "Order Cancelled",
			Message:        msg,
			Kind:           notify.KindOrderUpdate,
			RelatedOrderID: o.ID,
		}
	}
	m := statusMessages[to]
	return notify.Notification{
		UserID:         o.CustomerID,
		Title:          m.Title,
		Message:        m.Message,
		Kind:           m.Kind,
		RelatedOrderID: o.ID,
	}
}
