package lifecycle

import (
	"context"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/events"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
)

type orderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, cancelReason *string) (bool, error)
	SetPaymentVerified(ctx context.Context, id string) (bool, error)
	AppendStatusEvent(ctx context.Context, e *domain.StatusEvent) error
}

type paymentRepository interface {
	LatestByOrder(ctx context.Context, orderID string) (*domain.PaymentTransaction, error)
	MarkVerified(ctx context.Context, orderID, verifierID string) (bool, error)
}

type notifier interface {
	Send(ctx context.Context, n notify.Notification) error
}

type changeBus interface {
	Publish(e events.OrderStatusChanged)
}
