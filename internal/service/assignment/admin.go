package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

// Admin is the manual override path. It bypasses scoring but goes
// through the same conditional claim and capacity check as the automatic
// engine, so a manual assignment racing a sweep resolves the same way
// two sweeps racing each other do.
type Admin struct {
	engine   *Engine
	orders   orderSource
	riders   riderSource
	settings *SettingsStore
	logger   logx.Logger

	operationTimeout time.Duration
}

// NewAdmin creates the admin override gateway.
func NewAdmin(engine *Engine, orders orderSource, riders riderSource, settings *SettingsStore, timeout time.Duration, logger logx.Logger) *Admin {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Admin{
		engine:           engine,
		orders:           orders,
		riders:           riders,
		settings:         settings,
		logger:           logger,
		operationTimeout: timeout,
	}
}

func (a *Admin) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.operationTimeout)
}

func requireAdmin(actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: admin action invoked by %s", apperr.ErrPermission, actor.Role)
	}
	return nil
}

// Sweep runs one matching pass on demand.
func (a *Admin) Sweep(ctx context.Context, actor domain.Actor) (domain.SweepReport, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.SweepReport{}, err
	}
	return a.engine.Sweep(ctx)
}

// ManualAssign forces an order onto a specific rider without scoring.
// The capacity invariant and the single-active-assignment invariant still
// hold: a rider at capacity or an order already claimed is a conflict.
func (a *Admin) ManualAssign(ctx context.Context, orderID, riderID string, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	o, rider, err := a.loadPair(ctx, orderID, riderID)
	if err != nil {
		return err
	}

	notes := fmt.Sprintf("manually assigned by %s", actor.ID)
	if err := a.engine.claim(ctx, orderID, riderID, notes, claimLimit(rider, a.settings.Current())); err != nil {
		return err
	}

	a.logger.Info("manual assignment",
		logx.String("order_id", orderID),
		logx.String("rider_id", riderID),
		logx.String("admin_id", actor.ID),
	)
	a.engine.afterClaim(ctx, o, &rider.Rider)
	return nil
}

// Reassign moves an order's active assignment to another rider: the old
// rider is released first, then the new one claims through the same
// conditional path. If the claim loses a race after the release, the
// order is back in the unassigned pool and the next sweep retries it.
func (a *Admin) Reassign(ctx context.Context, orderID, newRiderID string, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	o, rider, err := a.loadPair(ctx, orderID, newRiderID)
	if err != nil {
		return err
	}

	current, err := a.engine.ledger.GetActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if current == nil || !current.Active() {
		return fmt.Errorf("%w: order %s has no active assignment to reassign", apperr.ErrNotFound, orderID)
	}
	if current.BelongsTo(newRiderID) {
		return nil
	}
	if current.PickedUpAt != nil {
		return fmt.Errorf("%w: order %s is already picked up", apperr.ErrValidation, orderID)
	}

	if err := a.engine.release(ctx, orderID); err != nil {
		return err
	}

	notes := fmt.Sprintf("reassigned by %s", actor.ID)
	if err := a.engine.claim(ctx, orderID, newRiderID, notes, claimLimit(rider, a.settings.Current())); err != nil {
		a.logger.Warn("reassign claim failed after release",
			logx.String("order_id", orderID),
			logx.String("rider_id", newRiderID),
			logx.Err(err),
		)
		return err
	}

	a.logger.Info("order reassigned",
		logx.String("order_id", orderID),
		logx.String("rider_id", newRiderID),
		logx.String("admin_id", actor.ID),
	)
	a.engine.afterClaim(ctx, o, &rider.Rider)
	return nil
}

// Dashboard is the admin overview: active orders, the available rider
// pool with load, and the live matching settings.
type Dashboard struct {
	Orders   []domain.Order
	Riders   []domain.RiderLoad
	Settings Settings
}

// Overview assembles the dashboard.
func (a *Admin) Overview(ctx context.Context, actor domain.Actor) (*Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	orders, err := a.orders.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	riders, err := a.riders.ListAvailableWithLoad(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Orders:   orders,
		Riders:   riders,
		Settings: a.settings.Current(),
	}, nil
}

// CurrentSettings returns the live matching parameters.
func (a *Admin) CurrentSettings(ctx context.Context, actor domain.Actor) (Settings, error) {
	if err := requireAdmin(actor); err != nil {
		return Settings{}, err
	}
	return a.settings.Current(), nil
}

// UpdateSettings swaps in new matching parameters, effective on the next
// sweep.
func (a *Admin) UpdateSettings(ctx context.Context, next Settings, actor domain.Actor) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := a.settings.Update(next); err != nil {
		return err
	}
	a.logger.Info("assignment settings updated",
		logx.String("admin_id", actor.ID),
		logx.Int("max_orders_per_rider", next.MaxOrdersPerRider),
		logx.Float64("radius_km", next.RadiusKm),
	)
	return nil
}

// ReleaseOrder clears an order's active assignment, used when an order is
// cancelled while a rider still holds it.
func (a *Admin) ReleaseOrder(ctx context.Context, orderID string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return a.engine.release(ctx, orderID)
}

// loadPair fetches an order/rider pair, validating that the order can
// still be assigned at all.
func (a *Admin) loadPair(ctx context.Context, orderID, riderID string) (*domain.Order, *domain.RiderLoad, error) {
	o, err := a.orders.Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	if o.Status.Terminal() {
		return nil, nil, fmt.Errorf("%w: order %s is %s", apperr.ErrValidation, orderID, o.Status)
	}
	if o.FulfillmentType != domain.FulfillmentDelivery {
		return nil, nil, fmt.Errorf("%w: order %s is not a delivery order", apperr.ErrValidation, orderID)
	}

	rider, err := a.riders.Get(ctx, riderID)
	if err != nil {
		return nil, nil, err
	}
	if rider == nil {
		return nil, nil, fmt.Errorf("%w: rider %s", apperr.ErrNotFound, riderID)
	}
	return o, rider, nil
}
