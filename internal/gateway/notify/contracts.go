package notify

// Kind classifies a notification for the downstream sink.
type Kind string

// Notification kinds.
const (
	KindOrderUpdate Kind = "order_update"
	KindPayment     Kind = "payment"
	KindDelivery    Kind = "delivery"
	KindAssignment  Kind = "assignment"
	KindSystem      Kind = "system"
)

// Notification is one best-effort message for a user.
type Notification struct {
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Kind           Kind   `json:"kind"`
	RelatedOrderID string `json:"related_order_id,omitempty"`
}
