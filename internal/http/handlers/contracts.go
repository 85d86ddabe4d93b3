package handlers

import (
	"context"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/assignment"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/service/lifecycle"
)

// NewLifecycleUsecase adapts the lifecycle service for the order handler.
func NewLifecycleUsecase(svc *lifecycle.Service) lifecycleUsecase {
	return svc
}

// NewRiderUsecase adapts the assignment ledger for the rider handler.
func NewRiderUsecase(l *assignment.Ledger) riderUsecase {
	return l
}

// NewAdminUsecase adapts the assignment admin service for the admin handler.
func NewAdminUsecase(a *assignment.Admin) adminUsecase {
	return a
}

type lifecycleUsecase interface {
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	Transition(ctx context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, notes string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, reason string, actor domain.Actor) (*domain.Order, error)
	VerifyPayment(ctx context.Context, orderID string, actor domain.Actor) error
}

type riderUsecase interface {
	Accept(ctx context.Context, orderID string, actor domain.Actor) error
	MarkPickedUp(ctx context.Context, orderID string, actor domain.Actor) error
	MarkDelivered(ctx context.Context, orderID string, actor domain.Actor, proofRef *string) error
	VerifyCODPayment(ctx context.Context, orderID string, actor domain.Actor) error
	SetAvailability(ctx context.Context, riderID string, available bool, actor domain.Actor) error
	UpdateLocation(ctx context.Context, riderID string, p domain.Point, actor domain.Actor) error
	ActiveAssignments(ctx context.Context, riderID string, actor domain.Actor) ([]domain.DeliveryAssignment, error)
}

type adminUsecase interface {
	Sweep(ctx context.Context, actor domain.Actor) (domain.SweepReport, error)
	ManualAssign(ctx context.Context, orderID, riderID string, actor domain.Actor) error
	Reassign(ctx context.Context, orderID, newRiderID string, actor domain.Actor) error
	Overview(ctx context.Context, actor domain.Actor) (*assignment.Dashboard, error)
	CurrentSettings(ctx context.Context, actor domain.Actor) (assignment.Settings, error)
	UpdateSettings(ctx context.Context, next assignment.Settings, actor domain.Actor) error
}
