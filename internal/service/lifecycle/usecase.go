package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/events"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// Service owns every order status write. Status, payment_status and the
// cancellation fields change only through its methods, so the transition
// graph and payment gate hold no matter which surface the request came
// from.
type Service struct {
	orders           orderRepository
	payments         paymentRepository
	notifier         notifier
	bus              changeBus
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates the order lifecycle service.
func NewService(orders orderRepository, payments paymentRepository, n notifier, bus changeBus, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		orders:           orders,
		payments:         payments,
		notifier:         n,
		bus:              bus,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	return o, nil
}

// Transition moves an order to the target status. A same-status request
// is a silent no-op: no write, no audit entry, no notification. The write
// is conditional on the status the order was loaded with, so a concurrent
// transition surfaces as a conflict instead of a lost update.
func (s *Service) Transition(ctx context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, notes string) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}

	if target == o.Status {
		return o, nil
	}
	if !domain.CanTransition(o.Status, target) {
		return nil, fmt.Errorf("%w: invalid transition %s -> %s", apperr.ErrValidation, o.Status, target)
	}
	if target == domain.OrderPreparing && o.PaymentMethod != domain.PaymentCOD && !o.PaymentVerified {
		return nil, fmt.Errorf("%w: payment not verified", apperr.ErrValidation)
	}

	return s.apply(ctx, o, target, actor, notes, nil)
}

// Cancel moves an order to cancelled with a reason. Terminal orders are
// rejected; everything else can be cancelled.
func (s *Service) Cancel(ctx context.Context, orderID, reason string, actor domain.Actor) (*domain.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	if o.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot cancel terminal order", apperr.ErrValidation)
	}

	return s.apply(ctx, o, domain.OrderCancelled, actor, reason, &reason)
}

// VerifyPayment marks the latest pending payment transaction of an order
// as verified, admin-only. Verification is recorded both on the payment
// transaction and as the order-level gate flag.
func (s *Service) VerifyPayment(ctx context.Context, orderID string, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only admins can verify payments", apperr.ErrPermission)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	if o.PaymentVerified {
		return fmt.Errorf("%w: already verified", apperr.ErrValidation)
	}

	ok, err := s.payments.MarkVerified(ctx, orderID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no pending payment transaction for order %s", apperr.ErrValidation, orderID)
	}
	if _, err := s.orders.SetPaymentVerified(ctx, orderID); err != nil {
		return err
	}

	s.logger.Info("payment verified",
		logx.String("order_id", orderID),
		logx.String("verified_by", actor.ID),
	)
	s.send(ctx, verifiedNotification(o))
	return nil
}

// CreateOrder records an order that originated outside this service, for
// the ingest feed. A duplicate ID is treated as already-ingested. Orders
// arriving without an ID get a generated one.
func (s *Service) CreateOrder(ctx context.Context, o *domain.Order) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CustomerID == "" {
		return fmt.Errorf("%w: customer id is required", apperr.ErrValidation)
	}
	if o.Status == "" {
		o.Status = domain.OrderPending
	}
	return s.orders.Create(ctx, o)
}

// apply performs the conditional write plus its side effects: audit entry,
// customer notification and the change event for subscribers.
func (s *Service) apply(ctx context.Context, o *domain.Order, target domain.OrderStatus, actor domain.Actor, notes string, cancelReason *string) (*domain.Order, error) {
	ok, err := s.orders.UpdateStatus(ctx, o.ID, o.Status, target, cancelReason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order %s changed concurrently", apperr.ErrConflict, o.ID)
	}

	event := &domain.StatusEvent{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   target,
		Actor:      actor,
		Notes:      notes,
		CreatedAt:  s.now(),
	}
	if err := s.orders.AppendStatusEvent(ctx, event); err != nil {
		// The transition itself is committed; a lost audit row is logged,
		// not surfaced to the caller.
		s.logger.Error("append status event failed",
			logx.String("order_id", o.ID),
			logx.Err(err),
		)
	}

	from := o.Status
	o.Status = target
	o.CancelReason = cancelReason

	s.logger.Info("order status changed",
		logx.String("order_id", o.ID),
		logx.String("from", string(from)),
		logx.String("to", string(target)),
		logx.String("actor", actor.Role.String()),
	)

	s.send(ctx, messageFor(o, target))
	s.bus.Publish(events.OrderStatusChanged{
		OrderID:     o.ID,
		From:        from,
		To:          target,
		Fulfillment: o.FulfillmentType,
		At:          s.now(),
	})
	return o, nil
}

// send delivers a notification best-effort. Failures are logged and
// swallowed; a dead notification sink never fails a transition.
func (s *Service) send(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Send(ctx, n); err != nil {
		s.logger.Warn("notification dropped",
			logx.String("user_id", n.UserID),
			logx.String("order_id", n.RelatedOrderID),
			logx.Err(err),
		)
	}
}

func verifiedNotification(o *domain.Order) notify.Notification {
	return notify.Notification{
		UserID:         o.CustomerID,
		Title:          "Payment Verified",
		Message:        "Your payment has been verified.",
		Kind:           notify.KindPayment,
		RelatedOrderID: o.ID,
	}
}
