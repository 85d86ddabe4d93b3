package assigntx

import (
	"context"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

// Repository is the transactional view used by claim and release paths.
// The rider lock serializes capacity checks for one rider across
// concurrent callers; order-side races resolve through the conditional
// claim statements and the partial unique index behind them.
type Repository interface {
	LockRider(ctx context.Context, riderID string) (bool, error)
	CountActiveByRider(ctx context.Context, riderID string) (int, error)
	GetActiveByOrder(ctx context.Context, orderID string) (*domain.DeliveryAssignment, error)
	ClaimUnclaimed(ctx context.Context, orderID, riderID string) (bool, error)
	InsertClaimed(ctx context.Context, orderID, riderID, notes string) (bool, error)
	ReleaseRider(ctx context.Context, orderID string) (bool, error)
}

// Runner is a transaction runner.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
