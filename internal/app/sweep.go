package app

import (
	"context"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/events"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
)

// subscribeSweepTrigger runs a matching pass whenever a delivery order
// becomes ready for pickup, so riders are sought the moment the kitchen
// finishes instead of on a polling schedule.
func subscribeSweepTrigger(bus *events.Bus, engine *assignment.Engine, logger logx.Logger) {
	bus.Subscribe(func(ctx context.Context, e events.OrderStatusChanged) {
		if e.To != domain.OrderReadyForPickup || e.Fulfillment != domain.FulfillmentDelivery {
			return
		}
		report, err := engine.Sweep(ctx)
		if err != nil {
			logger.Error("triggered sweep failed",
				logx.String("order_id", e.OrderID),
				logx.Err(err),
			)
			return
		}
		logger.Info("triggered sweep finished",
			logx.String("order_id", e.OrderID),
			logx.Int("assigned", report.Assigned),
			logx.Int("unassigned", report.Unassigned),
			logx.Int("failed", report.Failed),
		)
	})
}
