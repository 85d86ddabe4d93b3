package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/geo"
)

// fakeDistance reads the rider point's Lng as the distance in km, so a
// test can dial in exact distances without haversine arithmetic.
type fakeDistance struct{}

func (fakeDistance) DistanceKm(_, b *domain.Point) float64 {
	if b == nil {
		return geo.SentinelDistanceKm
	}
	return b.Lng
}

func defaultSettings() Settings {
	return Settings{
		MaxOrdersPerRider:  3,
		RadiusKm:           10,
		DistanceWeight:     0.4,
		AvailabilityWeight: 0.3,
		UrgencyWeight:      0.3,
	}
}

func riderAt(id string, km float64, current, capacity int) *domain.RiderLoad {
	return &domain.RiderLoad{
		Rider: domain.Rider{
			ID:              id,
			UserID:          "user-" + id,
			IsAvailable:     true,
			CurrentLocation: &domain.Point{Lat: 0, Lng: km},
			Capacity:        capacity,
		},
		CurrentOrders: current,
	}
}

func TestScore_AvailabilityOutweighsDistance(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	order := &domain.Order{
		ID:            "ord-1",
		DeliveryPoint: &domain.Point{},
		CreatedAt:     now.Add(-5 * time.Minute),
	}

	a := riderAt("a", 2, 0, 3)
	b := riderAt("b", 1, 2, 3)

	require.InDelta(t, 0.87, score(order, a, defaultSettings(), fakeDistance{}, now), 0.001)
	require.InDelta(t, 0.71, score(order, b, defaultSettings(), fakeDistance{}, now), 0.001)

	best := pickBest(order, []*domain.RiderLoad{a, b}, defaultSettings(), fakeDistance{}, now)
	require.NotNil(t, best)
	require.Equal(t, "a", best.ID)
}

func TestScore_MissingLocationZeroesDistance(t *testing.T) {
	now := time.Now().UTC()
	order := &domain.Order{DeliveryPoint: &domain.Point{}, CreatedAt: now}
	r := riderAt("a", 0, 0, 3)
	r.CurrentLocation = nil

	// distanceScore collapses to 0 through the sentinel; availability and
	// urgency still contribute.
	require.InDelta(t, 0.6, score(order, r, defaultSettings(), fakeDistance{}, now), 0.001)
}

func TestScore_UrgencyIsCapped(t *testing.T) {
	now := time.Now().UTC()
	order := &domain.Order{DeliveryPoint: &domain.Point{}, CreatedAt: now.Add(-2 * time.Hour)}
	r := riderAt("a", 0, 0, 3)

	require.InDelta(t, 0.7, score(order, r, defaultSettings(), fakeDistance{}, now), 0.001)
}

func TestPickBest_SkipsRidersAtCapacity(t *testing.T) {
	now := time.Now().UTC()
	order := &domain.Order{DeliveryPoint: &domain.Point{}, CreatedAt: now}

	full := riderAt("full", 1, 3, 3)
	require.Nil(t, pickBest(order, []*domain.RiderLoad{full}, defaultSettings(), fakeDistance{}, now))
}

func TestPickBest_TieBreaksOnLoadThenLastActive(t *testing.T) {
	now := time.Now().UTC()
	order := &domain.Order{DeliveryPoint: &domain.Point{}, CreatedAt: now}

	// Identical distance and capacity; b carries less load.
	a := riderAt("a", 5, 1, 3)
	b := riderAt("b", 5, 0, 3)
	c := riderAt("c", 5, 0, 3)
	b.LastActiveAt = now.Add(-time.Hour)
	c.LastActiveAt = now

	// a loses on availability score already; between b and c the scores
	// tie exactly, so the earlier last-active wins.
	best := pickBest(order, []*domain.RiderLoad{a, c, b}, defaultSettings(), fakeDistance{}, now)
	require.NotNil(t, best)
	require.Equal(t, "b", best.ID)
}
