package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// Ledger is the rider-side assignment lifecycle: accept, pick up,
// verify a cash payment, deliver. Every method checks that the caller is
// a rider acting on its own assignment before touching anything.
type Ledger struct {
	engine    *Engine
	orders    orderSource
	riders    riderSource
	ledger    assignmentLedger
	payments  paymentVerifier
	lifecycle orderTransitioner
	locator   locationIndex
	notifier  notifier
	logger    logx.Logger

	operationTimeout time.Duration
}

// LedgerDeps carries the ledger's collaborators. Locator may be nil.
type LedgerDeps struct {
	Engine    *Engine
	Orders    orderSource
	Riders    riderSource
	Ledger    assignmentLedger
	Payments  paymentVerifier
	Lifecycle orderTransitioner
	Locator   locationIndex
	Notifier  notifier
	Logger    logx.Logger
	Timeout   time.Duration
}

// NewLedger creates the rider-side assignment service.
func NewLedger(d LedgerDeps) *Ledger {
	if d.Timeout <= 0 {
		d.Timeout = 3 * time.Second
	}
	return &Ledger{
		engine:           d.Engine,
		orders:           d.Orders,
		riders:           d.Riders,
		ledger:           d.Ledger,
		payments:         d.Payments,
		lifecycle:        d.Lifecycle,
		locator:          d.Locator,
		notifier:         d.Notifier,
		logger:           d.Logger,
		operationTimeout: d.Timeout,
	}
}

func (l *Ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, l.operationTimeout)
}

func requireRider(actor domain.Actor) error {
	if actor.Role != domain.RoleRider {
		return fmt.Errorf("%w: rider action invoked by %s", apperr.ErrPermission, actor.Role)
	}
	return nil
}

// Accept claims an order for the calling rider. Accepting an order the
// rider already holds is a no-op; accepting one held by another rider is
// a conflict. The order status is untouched: accepted is a rider-side
// claim, not "left the kitchen".
func (l *Ledger) Accept(ctx context.Context, orderID string, actor domain.Actor) error {
	if err := requireRider(actor); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	rider, err := l.riders.Get(ctx, actor.ID)
	if err != nil {
		return err
	}
	if rider == nil {
		return fmt.Errorf("%w: rider %s", apperr.ErrNotFound, actor.ID)
	}

	current, err := l.ledger.GetActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if current != nil && current.Active() {
		if current.BelongsTo(actor.ID) {
			return nil
		}
		return fmt.Errorf("%w: this order has already been assigned to another rider", apperr.ErrConflict)
	}

	settings := l.engine.settings.Current()
	if err := l.engine.claim(ctx, orderID, actor.ID, "accepted by rider", claimLimit(rider, settings)); err != nil {
		return err
	}

	l.logger.Info("order accepted",
		logx.String("order_id", orderID),
		logx.String("rider_id", actor.ID),
	)
	return nil
}

// MarkPickedUp stamps the pickup on the rider's assignment and moves the
// order out for delivery.
func (l *Ledger) MarkPickedUp(ctx context.Context, orderID string, actor domain.Actor) error {
	if err := requireRider(actor); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	ok, err := l.ledger.MarkPickedUp(ctx, orderID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		a, err := l.ledger.GetActiveByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		switch {
		case a == nil:
			return fmt.Errorf("%w: no active assignment for order %s", apperr.ErrNotFound, orderID)
		case !a.BelongsTo(actor.ID):
			return fmt.Errorf("%w: assignment belongs to another rider", apperr.ErrPermission)
		case a.PickedUpAt != nil:
			// Repeated pickup from the same rider is a no-op.
			return nil
		default:
			return fmt.Errorf("%w: order %s cannot be picked up", apperr.ErrConflict, orderID)
		}
	}

	if _, err := l.lifecycle.Transition(ctx, orderID, domain.OrderOutForDelivery, actor, "picked up by rider"); err != nil {
		return err
	}
	return nil
}

// VerifyCODPayment records that the rider collected cash for the order.
// Only valid for cash-on-delivery orders that are out for delivery and
// not yet verified.
func (l *Ledger) VerifyCODPayment(ctx context.Context, orderID string, actor domain.Actor) error {
	if err := requireRider(actor); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	o, err := l.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	if o.PaymentMethod != domain.PaymentCOD {
		return fmt.Errorf("%w: only cash-on-delivery payments can be verified by riders", apperr.ErrValidation)
	}
	if o.PaymentVerified {
		return fmt.Errorf("%w: already verified", apperr.ErrValidation)
	}
	if o.Status != domain.OrderOutForDelivery {
		return fmt.Errorf("%w: order must be out for delivery", apperr.ErrValidation)
	}

	a, err := l.ledger.GetActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if a == nil || !a.BelongsTo(actor.ID) {
		return fmt.Errorf("%w: assignment belongs to another rider", apperr.ErrPermission)
	}

	if _, err := l.payments.MarkVerified(ctx, orderID, actor.ID); err != nil {
		return err
	}
	if _, err := l.orders.SetPaymentVerified(ctx, orderID); err != nil {
		return err
	}

	l.logger.Info("cod payment verified",
		logx.String("order_id", orderID),
		logx.String("rider_id", actor.ID),
	)
	l.sendBestEffort(ctx, notify.Notification{
		UserID:         o.CustomerID,
		Title:          "Payment Received",
		Message:        "Your cash payment has been received by the rider.",
		Kind:           notify.KindPayment,
		RelatedOrderID: o.ID,
	})
	return nil
}

// MarkDelivered stamps the delivery, which frees one slot of the rider's
// capacity, and moves the order to its terminal delivered state.
func (l *Ledger) MarkDelivered(ctx context.Context, orderID string, actor domain.Actor, proofRef *string) error {
	if err := requireRider(actor); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	ok, err := l.ledger.MarkDelivered(ctx, orderID, actor.ID, proofRef)
	if err != nil {
		return err
	}
	if !ok {
		a, err := l.ledger.GetActiveByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		switch {
		case a == nil:
			return fmt.Errorf("%w: no active assignment for order %s", apperr.ErrNotFound, orderID)
		case !a.BelongsTo(actor.ID):
			return fmt.Errorf("%w: assignment belongs to another rider", apperr.ErrPermission)
		default:
			return fmt.Errorf("%w: order must be picked up before delivery", apperr.ErrValidation)
		}
	}

	if _, err := l.lifecycle.Transition(ctx, orderID, domain.OrderDelivered, actor, "delivered by rider"); err != nil {
		return err
	}
	return nil
}

// SetAvailability flips the rider's availability flag and keeps the
// location index consistent with it.
func (l *Ledger) SetAvailability(ctx context.Context, riderID string, available bool, actor domain.Actor) error {
	if err := requireSelfOrAdmin(riderID, actor); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	ok, err := l.riders.SetAvailability(ctx, riderID, available)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: rider %s", apperr.ErrNotFound, riderID)
	}
	if !available && l.locator != nil {
		if err := l.locator.Remove(ctx, riderID); err != nil {
			l.logger.Warn("location index remove failed",
				logx.String("rider_id", riderID),
				logx.Err(err),
			)
		}
	}
	return nil
}

// UpdateLocation records the rider's last reported position, both in the
// row and in the location index the pre-filter queries.
func (l *Ledger) UpdateLocation(ctx context.Context, riderID string, p domain.Point, actor domain.Actor) error {
	if err := requireSelfOrAdmin(riderID, actor); err != nil {
		return err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	ok, err := l.riders.UpdateLocation(ctx, riderID, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: rider %s", apperr.ErrNotFound, riderID)
	}
	if l.locator != nil {
		if err := l.locator.Update(ctx, riderID, p); err != nil {
			l.logger.Warn("location index update failed",
				logx.String("rider_id", riderID),
				logx.Err(err),
			)
		}
	}
	return nil
}

// ActiveAssignments lists the rider's undelivered assignments.
func (l *Ledger) ActiveAssignments(ctx context.Context, riderID string, actor domain.Actor) ([]domain.DeliveryAssignment, error) {
	if err := requireSelfOrAdmin(riderID, actor); err != nil {
		return nil, err
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.ledger.ListActiveByRider(ctx, riderID)
}

func requireSelfOrAdmin(riderID string, actor domain.Actor) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.Role == domain.RoleRider && actor.ID == riderID {
		return nil
	}
	return fmt.Errorf("%w: cannot act on rider %s", apperr.ErrPermission, riderID)
}

func (l *Ledger) sendBestEffort(ctx context.Context, n notify.Notification) {
	if err := l.notifier.Send(ctx, n); err != nil {
		l.logger.Warn("notification dropped",
			logx.String("user_id", n.UserID),
			logx.String("order_id", n.RelatedOrderID),
			logx.Err(err),
		)
	}
}
