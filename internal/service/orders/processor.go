package orders

import (
	"context"
	"errors"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// feedActorID marks transitions replayed from the change feed in the
// audit trail.
const feedActorID = "order-feed"

// Processor replays upstream order change-feed events onto the local
// lifecycle. The feed delivers at-least-once and out of order, so every
// action must tolerate duplicates: conflicts and guard failures are
// logged and skipped, never retried as poison pills.
type Processor struct {
	lifecycle  LifecyclePort
	assignment AssignmentPort
	payments   PaymentPort
	logger     logx.Logger
	factory    *actionFactory
}

// NewProcessor creates the feed processor.
func NewProcessor(lc LifecyclePort, as AssignmentPort, pay PaymentPort, logger logx.Logger) *Processor {
	p := &Processor{
		lifecycle:  lc,
		assignment: as,
		payments:   pay,
		logger:     logger,
	}
	p.factory = newActionFactory(p.onCreated, p.onAdvanced, p.onPaid, p.onCancelled)
	return p
}

// Handle processes a single feed event. Unknown statuses are ignored.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onCreated(ctx context.Context, e Event) error {
	o := &domain.Order{
		ID:              e.OrderID,
		OrderNumber:     e.OrderNumber,
		CustomerID:      e.CustomerID,
		Status:          domain.OrderPending,
		FulfillmentType: domain.FulfillmentType(e.FulfillmentType),
		PaymentMethod:   domain.PaymentMethod(e.PaymentMethod),
		PaymentStatus:   domain.PaymentPending,
		Total:           e.Total,
		CreatedAt:       e.CreatedAt,
	}
	if o.FulfillmentType == "" {
		o.FulfillmentType = domain.FulfillmentDelivery
	}
	if e.DeliveryLat != nil && e.DeliveryLng != nil {
		o.DeliveryPoint = &domain.Point{Lat: *e.DeliveryLat, Lng: *e.DeliveryLng}
	}

	err := p.lifecycle.CreateOrder(ctx, o)
	if errors.Is(err, apperr.ErrConflict) {
		// Redelivered event; the order is already ingested.
		return nil
	}
	return err
}

func (p *Processor) onAdvanced(ctx context.Context, e Event) error {
	target, ok := domain.ParseOrderStatus(e.Status)
	if !ok {
		return nil
	}
	_, err := p.lifecycle.Transition(ctx, e.OrderID, target, domain.Admin(feedActorID), "change feed")
	return p.skipExpected(err, e)
}

func (p *Processor) onPaid(ctx context.Context, e Event) error {
	ok, err := p.payments.SetPaymentVerified(ctx, e.OrderID)
	if err != nil {
		return err
	}
	if !ok {
		// Already verified on a previous delivery.
		return nil
	}
	p.logger.Info("payment verified from feed", logx.String("order_id", e.OrderID))
	return nil
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	reason := e.Reason
	if reason == "" {
		reason = "cancelled upstream"
	}
	_, err := p.lifecycle.Cancel(ctx, e.OrderID, reason, domain.Admin(feedActorID))
	if err := p.skipExpected(err, e); err != nil {
		return err
	}
	return p.assignment.ReleaseOrder(ctx, e.OrderID)
}

// skipExpected drops the errors an out-of-order or duplicated feed
// produces by design. Anything else is returned for redelivery.
func (p *Processor) skipExpected(err error, e Event) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict), errors.Is(err, apperr.ErrNotFound):
		p.logger.Warn("feed event skipped",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
			logx.Err(err),
		)
		return nil
	default:
		return err
	}
}
