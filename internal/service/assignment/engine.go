package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/geo"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/ports/assigntx"
)

// Engine matches eligible delivery orders to available riders. A sweep is
// one greedy oldest-first pass; correctness under concurrent sweeps and
// rider actions rests on the conditional claim, not on any in-process
// lock.
type Engine struct {
	orders   orderSource
	riders   riderSource
	ledger   assignmentLedger
	dist     geo.DistanceProvider
	locator  nearbyFinder
	settings *SettingsStore
	notifier notifier
	logger   logx.Logger

	assigned   counter
	conflicts  counter
	unassigned gauge

	now func() time.Time
}

// EngineDeps carries the engine's collaborators. Locator may be nil; the
// engine then scores the full candidate pool for every order.
type EngineDeps struct {
	Orders     orderSource
	Riders     riderSource
	Ledger     assignmentLedger
	Distance   geo.DistanceProvider
	Locator    nearbyFinder
	Settings   *SettingsStore
	Notifier   notifier
	Logger     logx.Logger
	Assigned   counter
	Conflicts  counter
	Unassigned gauge
}

// NewEngine creates the matching engine.
func NewEngine(d EngineDeps) *Engine {
	return &Engine{
		orders:     d.Orders,
		riders:     d.Riders,
		ledger:     d.Ledger,
		dist:       d.Distance,
		locator:    d.Locator,
		settings:   d.Settings,
		notifier:   d.Notifier,
		logger:     d.Logger,
		assigned:   d.Assigned,
		conflicts:  d.Conflicts,
		unassigned: d.Unassigned,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Sweep runs one matching pass over every eligible order, oldest first.
// Partial failure is reported, not raised: a lost claim or a rider at
// capacity moves the sweep to the next order.
func (e *Engine) Sweep(ctx context.Context) (domain.SweepReport, error) {
	var report domain.SweepReport
	settings := e.settings.Current()

	orders, err := e.orders.ListEligibleForAssignment(ctx)
	if err != nil {
		return report, err
	}
	if len(orders) == 0 {
		e.unassigned.Set(0)
		return report, nil
	}

	pool, err := e.riders.ListAvailableWithLoad(ctx)
	if err != nil {
		return report, err
	}
	candidates := make([]*domain.RiderLoad, len(pool))
	for i := range pool {
		candidates[i] = &pool[i]
	}

	now := e.now()
	for i := range orders {
		o := &orders[i]

		best := pickBest(o, e.narrow(ctx, o, candidates, settings.RadiusKm), settings, e.dist, now)
		if best == nil {
			report.Unassigned++
			continue
		}

		err := e.claim(ctx, o.ID, best.ID, "auto-assigned", claimLimit(best, settings))
		switch {
		case err == nil:
			// Count the claim before scoring the next order so one sweep
			// cannot stack a rider past its capacity.
			best.CurrentOrders++
			report.Assigned++
			e.assigned.Inc()
			e.afterClaim(ctx, o, &best.Rider)
		case errors.Is(err, apperr.ErrConflict):
			e.conflicts.Inc()
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("order %s: %v", o.ID, err))
		default:
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("order %s: %v", o.ID, err))
			e.logger.Error("assignment claim failed",
				logx.String("order_id", o.ID),
				logx.String("rider_id", best.ID),
				logx.Err(err),
			)
		}
	}

	e.unassigned.Set(float64(report.Unassigned))
	e.logger.Info("assignment sweep finished",
		logx.Int("assigned", report.Assigned),
		logx.Int("unassigned", report.Unassigned),
		logx.Int("failed", report.Failed),
	)
	return report, nil
}

// narrow applies the geo pre-filter for one order. Any index problem
// falls back to the full pool; the filter is an optimization, never a
// correctness gate.
func (e *Engine) narrow(ctx context.Context, o *domain.Order, pool []*domain.RiderLoad, radiusKm float64) []*domain.RiderLoad {
	if e.locator == nil || o.DeliveryPoint == nil {
		return pool
	}
	ids, ok, err := e.locator.Nearby(ctx, *o.DeliveryPoint, radiusKm)
	if err != nil {
		e.logger.Warn("rider location index lookup failed", logx.Err(err))
		return pool
	}
	if !ok {
		return pool
	}
	near := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		near[id] = struct{}{}
	}
	out := make([]*domain.RiderLoad, 0, len(pool))
	for _, r := range pool {
		if _, hit := near[r.ID]; hit {
			out = append(out, r)
		}
	}
	return out
}

// claim commits one order/rider match. The rider row lock serializes the
// capacity check; the order side is settled by the conditional claim and
// the partial unique index underneath it.
func (e *Engine) claim(ctx context.Context, orderID, riderID, notes string, limit int) error {
	err := e.ledger.WithTx(ctx, func(tx assigntx.Repository) error {
		exists, err := tx.LockRider(ctx, riderID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: rider %s", apperr.ErrNotFound, riderID)
		}

		active, err := tx.CountActiveByRider(ctx, riderID)
		if err != nil {
			return err
		}
		if active >= limit {
			return fmt.Errorf("%w: rider %s at capacity", apperr.ErrConflict, riderID)
		}

		claimed, err := tx.ClaimUnclaimed(ctx, orderID, riderID)
		if err != nil {
			return err
		}
		if claimed {
			return nil
		}

		inserted, err := tx.InsertClaimed(ctx, orderID, riderID, notes)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("%w: order %s already assigned", apperr.ErrConflict, orderID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := e.orders.SetAssignedRider(ctx, orderID, &riderID); err != nil {
		// The assignment row is the source of truth; a stale projection
		// heals on the next write.
		e.logger.Warn("assigned rider projection update failed",
			logx.String("order_id", orderID),
			logx.Err(err),
		)
	}
	return nil
}

func (e *Engine) afterClaim(ctx context.Context, o *domain.Order, r *domain.Rider) {
	e.logger.Info("order assigned",
		logx.String("order_id", o.ID),
		logx.String("rider_id", r.ID),
	)
	n := notify.Notification{
		UserID:         r.UserID,
		Title:          "New Delivery Assignment",
		Message:        fmt.Sprintf("You have been assigned order %s.", o.OrderNumber),
		Kind:           notify.KindAssignment,
		RelatedOrderID: o.ID,
	}
	if err := e.notifier.Send(ctx, n); err != nil {
		e.logger.Warn("assignment notification dropped",
			logx.String("rider_id", r.ID),
			logx.Err(err),
		)
	}
}

func claimLimit(r *domain.RiderLoad, s Settings) int {
	if r.Capacity > 0 {
		return r.Capacity
	}
	return s.MaxOrdersPerRider
}

// release clears the rider from an order's active assignment, used by
// cancellation and reassignment. Releasing an unclaimed or absent
// assignment is a no-op.
func (e *Engine) release(ctx context.Context, orderID string) error {
	err := e.ledger.WithTx(ctx, func(tx assigntx.Repository) error {
		_, err := tx.ReleaseRider(ctx, orderID)
		return err
	})
	if err != nil {
		return err
	}
	if err := e.orders.SetAssignedRider(ctx, orderID, nil); err != nil {
		e.logger.Warn("assigned rider projection update failed",
			logx.String("order_id", orderID),
			logx.Err(err),
		)
	}
	return nil
}
