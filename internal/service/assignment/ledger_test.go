package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/gateway/notify"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/logx"
)

type recordedTransition struct {
	orderID string
	target  domain.OrderStatus
	actor   domain.Actor
}

type stubLifecycle struct {
	calls []recordedTransition
	err   error
}

func (s *stubLifecycle) Transition(_ context.Context, orderID string, target domain.OrderStatus, actor domain.Actor, _ string) (*domain.Order, error) {
	s.calls = append(s.calls, recordedTransition{orderID: orderID, target: target, actor: actor})
	return nil, s.err
}

type stubPayments struct{ verified []string }

func (s *stubPayments) MarkVerified(_ context.Context, orderID, _ string) (bool, error) {
	s.verified = append(s.verified, orderID)
	return true, nil
}

type ledgerFixture struct {
	*engineFixture
	lifecycle *stubLifecycle
	payments  *stubPayments
	svc       *Ledger
}

func newLedgerFixture(t *testing.T, orders *stubOrderSource, riders *stubRiderSource, mem *memLedger) *ledgerFixture {
	t.Helper()
	ef := newEngineFixture(t, orders, riders, mem)
	f := &ledgerFixture{
		engineFixture: ef,
		lifecycle:     &stubLifecycle{},
		payments:      &stubPayments{},
	}
	f.svc = NewLedger(LedgerDeps{
		Engine:    ef.engine,
		Orders:    orders,
		Riders:    riders,
		Ledger:    mem,
		Payments:  f.payments,
		Lifecycle: f.lifecycle,
		Notifier:  ef.notifier,
		Logger:    logx.Nop(),
		Timeout:   time.Second,
	})
	return f
}

func TestAccept_ClaimsUnassignedOrder(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	orders := newStubOrders(o)
	f := newLedgerFixture(t, orders, newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

	err := f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1"))
	require.NoError(t, err)
	require.True(t, f.ledger.active("ord-1").BelongsTo("r1"))

	// The order stays ready_for_pickup until physical pickup.
	require.Empty(t, f.lifecycle.calls)
}

func TestAccept_SameRiderIsIdempotent(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	list, err := f.ledger.ListActiveByRider(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAccept_OtherRiderConflicts(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	riders := newStubRiders(riderAt("r1", 1, 0, 3), riderAt("r2", 2, 0, 3))
	f := newLedgerFixture(t, newStubOrders(o), riders, newMemLedger("r1", "r2"))

	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	err := f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r2"))
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.Contains(t, err.Error(), "already been assigned to another rider")
}

func TestAccept_AtCapacityConflicts(t *testing.T) {
	o1 := deliveryOrder("ord-1", time.Minute)
	o2 := deliveryOrder("ord-2", time.Minute)
	f := newLedgerFixture(t, newStubOrders(o1, o2), newStubRiders(riderAt("r1", 1, 0, 1)), newMemLedger("r1"))

	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	err := f.svc.Accept(context.Background(), "ord-2", domain.RiderActor("r1"))
	require.ErrorIs(t, err, apperr.ErrConflict)
	require.Contains(t, err.Error(), "at capacity")
}

func TestAccept_RejectsNonRiderActor(t *testing.T) {
	f := newLedgerFixture(t, newStubOrders(), newStubRiders(), newMemLedger())

	err := f.svc.Accept(context.Background(), "ord-1", domain.Admin("adm-1"))
	require.ErrorIs(t, err, apperr.ErrPermission)
}

func TestMarkPickedUp_StampsAndMovesOrderOut(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	err := f.svc.MarkPickedUp(context.Background(), "ord-1", domain.RiderActor("r1"))
	require.NoError(t, err)
	require.NotNil(t, f.ledger.active("ord-1").PickedUpAt)

	require.Len(t, f.lifecycle.calls, 1)
	require.Equal(t, domain.OrderOutForDelivery, f.lifecycle.calls[0].target)
}

func TestMarkPickedUp_OtherRidersAssignment(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	riders := newStubRiders(riderAt("r1", 1, 0, 3), riderAt("r2", 2, 0, 3))
	f := newLedgerFixture(t, newStubOrders(o), riders, newMemLedger("r1", "r2"))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	err := f.svc.MarkPickedUp(context.Background(), "ord-1", domain.RiderActor("r2"))
	require.ErrorIs(t, err, apperr.ErrPermission)
	require.Empty(t, f.lifecycle.calls)
}

func TestMarkPickedUp_RepeatIsNoOp(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	require.NoError(t, f.svc.MarkPickedUp(context.Background(), "ord-1", domain.RiderActor("r1")))
	require.NoError(t, f.svc.MarkPickedUp(context.Background(), "ord-1", domain.RiderActor("r1")))

	require.Len(t, f.lifecycle.calls, 1)
}

func TestMarkDelivered_RequiresPickup(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	err := f.svc.MarkDelivered(context.Background(), "ord-1", domain.RiderActor("r1"), nil)
	require.ErrorIs(t, err, apperr.ErrValidation)
	require.Contains(t, err.Error(), "picked up before delivery")
}

func TestMarkDelivered_FreesCapacityAndCompletesOrder(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))
	require.NoError(t, f.svc.MarkPickedUp(context.Background(), "ord-1", domain.RiderActor("r1")))

	proof := "photo-123"
	err := f.svc.MarkDelivered(context.Background(), "ord-1", domain.RiderActor("r1"), &proof)
	require.NoError(t, err)

	require.Nil(t, f.ledger.active("ord-1"))
	require.Equal(t, "photo-123", *f.ledger.assignments["ord-1"].ProofRef)

	list, err := f.ledger.ListActiveByRider(context.Background(), "r1")
	require.NoError(t, err)
	require.Empty(t, list)

	require.Equal(t, domain.OrderDelivered, f.lifecycle.calls[len(f.lifecycle.calls)-1].target)
}

func TestVerifyCODPayment_Succeeds(t *testing.T) {
	o := deliveryOrder("ord-1", time.Minute)
	o.Status = domain.OrderOutForDelivery
	f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))
	require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

	err := f.svc.VerifyCODPayment(context.Background(), "ord-1", domain.RiderActor("r1"))
	require.NoError(t, err)
	require.Equal(t, []string{"ord-1"}, f.payments.verified)
	require.True(t, o.PaymentVerified)

	var kinds []notify.Kind
	for _, n := range f.notifier.sent {
		kinds = append(kinds, n.Kind)
	}
	require.Contains(t, kinds, notify.KindPayment)
}

func TestVerifyCODPayment_Guards(t *testing.T) {
	t.Run("non-cod order", func(t *testing.T) {
		o := deliveryOrder("ord-1", time.Minute)
		o.Status = domain.OrderOutForDelivery
		o.PaymentMethod = domain.PaymentGCash
		f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

		err := f.svc.VerifyCODPayment(context.Background(), "ord-1", domain.RiderActor("r1"))
		require.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("already verified", func(t *testing.T) {
		o := deliveryOrder("ord-1", time.Minute)
		o.Status = domain.OrderOutForDelivery
		o.PaymentVerified = true
		f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

		err := f.svc.VerifyCODPayment(context.Background(), "ord-1", domain.RiderActor("r1"))
		require.ErrorIs(t, err, apperr.ErrValidation)
		require.Contains(t, err.Error(), "already verified")
	})

	t.Run("wrong status", func(t *testing.T) {
		o := deliveryOrder("ord-1", time.Minute)
		f := newLedgerFixture(t, newStubOrders(o), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

		err := f.svc.VerifyCODPayment(context.Background(), "ord-1", domain.RiderActor("r1"))
		require.ErrorIs(t, err, apperr.ErrValidation)
		require.Contains(t, err.Error(), "order must be out for delivery")
	})

	t.Run("another rider's assignment", func(t *testing.T) {
		o := deliveryOrder("ord-1", time.Minute)
		o.Status = domain.OrderOutForDelivery
		riders := newStubRiders(riderAt("r1", 1, 0, 3), riderAt("r2", 2, 0, 3))
		f := newLedgerFixture(t, newStubOrders(o), riders, newMemLedger("r1", "r2"))
		require.NoError(t, f.svc.Accept(context.Background(), "ord-1", domain.RiderActor("r1")))

		err := f.svc.VerifyCODPayment(context.Background(), "ord-1", domain.RiderActor("r2"))
		require.ErrorIs(t, err, apperr.ErrPermission)
	})
}

func TestSetAvailability(t *testing.T) {
	f := newLedgerFixture(t, newStubOrders(), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

	require.NoError(t, f.svc.SetAvailability(context.Background(), "r1", false, domain.RiderActor("r1")))
	require.True(t, f.riders.unavailable["r1"])

	err := f.svc.SetAvailability(context.Background(), "r1", true, domain.RiderActor("r2"))
	require.ErrorIs(t, err, apperr.ErrPermission)

	err = f.svc.SetAvailability(context.Background(), "ghost", true, domain.Admin("adm-1"))
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateLocation(t *testing.T) {
	f := newLedgerFixture(t, newStubOrders(), newStubRiders(riderAt("r1", 1, 0, 3)), newMemLedger("r1"))

	p := domain.Point{Lat: 14.5995, Lng: 120.9842}
	require.NoError(t, f.svc.UpdateLocation(context.Background(), "r1", p, domain.RiderActor("r1")))
	require.Equal(t, p, f.riders.locations["r1"])

	err := f.svc.UpdateLocation(context.Background(), "r1", p, domain.Customer("cust-1"))
	require.ErrorIs(t, err, apperr.ErrPermission)
}
