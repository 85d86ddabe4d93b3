package orders

import (
	"context"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

// LifecyclePort abstracts the subset of lifecycle operations the
// processor needs when replaying feed events onto local state.
type LifecyclePort interface {
	CreateOrder(ctx context.Context, o *domain.Order) error
	Transition(ctx context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, notes string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, reason string, actor domain.Actor) (*domain.Order, error)
}

// AssignmentPort releases an order's active assignment when the feed
// reports a cancellation.
type AssignmentPort interface {
	ReleaseOrder(ctx context.Context, orderID string) error
}

// PaymentPort flips the payment gate when the upstream payment system
// reports a settled payment.
type PaymentPort interface {
	SetPaymentVerified(ctx context.Context, id string) (bool, error)
}
