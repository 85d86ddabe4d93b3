//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/repository"
)

type RiderRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.RiderRepo
}

func (s *RiderRepositorySuite) SetupSuite() {
	s.Require().NotNil(tcPool, "tcPool must be initialized in TestMain")

	s.pool = tcPool
	s.repo = repository.NewRiderRepo(tcPool)
}

func (s *RiderRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(context.Background(), s.pool))
}

func (s *RiderRepositorySuite) TestCreateAndGet() {
	ctx := context.Background()

	in := &domain.Rider{
		ID:              "rider-1",
		UserID:          "user-1",
		Name:            "Dan",
		Phone:           "+639170000001",
		IsAvailable:     true,
		CurrentLocation: &domain.Point{Lat: 14.6, Lng: 121.0},
		Capacity:        2,
		CreatedAt:       time.Now(),
	}
	s.Require().NoError(s.repo.Create(ctx, in))

	got, err := s.repo.Get(ctx, "rider-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(in.Name, got.Name)
	s.Equal(2, got.Capacity)
	s.True(got.IsAvailable)
	s.Require().NotNil(got.CurrentLocation)
	s.InDelta(14.6, got.CurrentLocation.Lat, 1e-9)
	s.Equal(0, got.CurrentOrders)
	s.True(got.HasSlack())
}

func (s *RiderRepositorySuite) TestCreate_DefaultsCapacity() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-2", UserID: "user-2", CreatedAt: time.Now(),
	}))

	got, err := s.repo.Get(ctx, "rider-2")
	s.Require().NoError(err)
	s.Equal(domain.DefaultRiderCapacity, got.Capacity)
}

func (s *RiderRepositorySuite) TestGet_NotFound() {
	got, err := s.repo.Get(context.Background(), "rider-missing")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RiderRepositorySuite) TestGet_DerivesLoadFromActiveAssignments() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-3", UserID: "user-3", CreatedAt: time.Now(),
	}))
	orders := repository.NewOrderRepo(s.pool)
	for _, id := range []string{"ord-1", "ord-2", "ord-3"} {
		s.Require().NoError(orders.Create(ctx, &domain.Order{
			ID: id, OrderNumber: "ORD-" + id, CustomerID: "cust-1",
			Status: domain.OrderReadyForPickup, FulfillmentType: domain.FulfillmentDelivery,
			PaymentMethod: domain.PaymentGCash, PaymentStatus: domain.PaymentVerified,
			PaymentVerified: true, CreatedAt: time.Now(),
		}))
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO delivery_assignments (order_id, rider_id, picked_up_at, delivered_at)
		VALUES ('ord-1', 'rider-3', NULL, NULL),
		       ('ord-2', 'rider-3', now(), NULL),
		       ('ord-3', 'rider-3', now(), now())`)
	s.Require().NoError(err)

	got, err := s.repo.Get(ctx, "rider-3")
	s.Require().NoError(err)
	s.Equal(2, got.CurrentOrders, "delivered assignments do not count")
}

func (s *RiderRepositorySuite) TestListAvailableWithLoad() {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-a", UserID: "u-a", IsAvailable: true, CreatedAt: base,
	}))
	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-b", UserID: "u-b", IsAvailable: false, CreatedAt: base,
	}))
	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-c", UserID: "u-c", IsAvailable: true, CreatedAt: base.Add(time.Minute),
	}))

	got, err := s.repo.ListAvailableWithLoad(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("rider-a", got[0].ID)
	s.Equal("rider-c", got[1].ID)
}

func (s *RiderRepositorySuite) TestSetAvailability() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-4", UserID: "user-4", IsAvailable: true, CreatedAt: time.Now(),
	}))

	ok, err := s.repo.SetAvailability(ctx, "rider-4", false)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, "rider-4")
	s.Require().NoError(err)
	s.False(got.IsAvailable)

	ok, err = s.repo.SetAvailability(ctx, "rider-missing", true)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RiderRepositorySuite) TestUpdateLocation() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Create(ctx, &domain.Rider{
		ID: "rider-5", UserID: "user-5", CreatedAt: time.Now(),
	}))

	ok, err := s.repo.UpdateLocation(ctx, "rider-5", domain.Point{Lat: 10.3, Lng: 123.9})
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, "rider-5")
	s.Require().NoError(err)
	s.Require().NotNil(got.CurrentLocation)
	s.InDelta(10.3, got.CurrentLocation.Lat, 1e-9)
	s.InDelta(123.9, got.CurrentLocation.Lng, 1e-9)

	ok, err = s.repo.UpdateLocation(ctx, "rider-missing", domain.Point{})
	s.Require().NoError(err)
	s.False(ok)
}

func TestRiderRepositorySuite(t *testing.T) {
	suite.Run(t, new(RiderRepositorySuite))
}
