package assignment

import (
	"context"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/ports/assigntx"
)

type orderSource interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListEligibleForAssignment(ctx context.Context) ([]domain.Order, error)
	ListActive(ctx context.Context) ([]domain.Order, error)
	SetAssignedRider(ctx context.Context, id string, riderID *string) error
	SetPaymentVerified(ctx context.Context, id string) (bool, error)
}

type riderSource interface {
	Get(ctx context.Context, id string) (*domain.RiderLoad, error)
	ListAvailableWithLoad(ctx context.Context) ([]domain.RiderLoad, error)
	SetAvailability(ctx context.Context, id string, available bool) (bool, error)
	UpdateLocation(ctx context.Context, id string, p domain.Point) (bool, error)
}

type assignmentLedger interface {
	assigntx.Runner
	GetActiveByOrder(ctx context.Context, orderID string) (*domain.DeliveryAssignment, error)
	ListActiveByRider(ctx context.Context, riderID string) ([]domain.DeliveryAssignment, error)
	MarkPickedUp(ctx context.Context, orderID, riderID string) (bool, error)
	MarkDelivered(ctx context.Context, orderID, riderID string, proofRef *string) (bool, error)
}

type paymentVerifier interface {
	MarkVerified(ctx context.Context, orderID, verifierID string) (bool, error)
}

// orderTransitioner is the slice of the lifecycle service rider actions
// use to advance the order alongside the assignment write.
type orderTransitioner interface {
	Transition(ctx context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, notes string) (*domain.Order, error)
}

// nearbyFinder narrows the candidate pool to riders near a point.
// ok == false means the index is unavailable and the full pool is used.
type nearbyFinder interface {
	Nearby(ctx context.Context, p domain.Point, radiusKm float64) ([]string, bool, error)
}

type locationIndex interface {
	Update(ctx context.Context, riderID string, p domain.Point) error
	Remove(ctx context.Context, riderID string) error
}

type notifier interface {
	Send(ctx context.Context, n notify.Notification) error
}

type counter interface {
	Inc()
}

type gauge interface {
	Set(v float64)
}
