package assignment

import (
	"math"
	"time"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/geo"
)

// urgencyCap bounds the order-age contribution to the score.
const urgencyCap = 30 * time.Minute

// score rates one rider for one order. All three factors are normalized
// to [0,1] before weighting; a rider with missing coordinates gets a
// zero distance score through the provider's sentinel distance.
func score(o *domain.Order, r *domain.RiderLoad, s Settings, dist geo.DistanceProvider, now time.Time) float64 {
	d := dist.DistanceKm(o.DeliveryPoint, r.CurrentLocation)
	distanceScore := 1 - math.Min(d, s.RadiusKm)/s.RadiusKm

	capacity := r.Capacity
	if capacity <= 0 {
		capacity = s.MaxOrdersPerRider
	}
	availabilityScore := 1 - float64(r.CurrentOrders)/float64(capacity)

	age := now.Sub(o.CreatedAt)
	if age < 0 {
		age = 0
	}
	urgencyScore := 1 - math.Min(age.Minutes(), urgencyCap.Minutes())/urgencyCap.Minutes()

	return distanceScore*s.DistanceWeight +
		availabilityScore*s.AvailabilityWeight +
		urgencyScore*s.UrgencyWeight
}

// pickBest selects the highest-scoring rider with spare capacity from the
// pool. Ties go to the rider with fewer active orders, then the earlier
// last-active time. Returns nil when nobody can take the order.
func pickBest(o *domain.Order, pool []*domain.RiderLoad, s Settings, dist geo.DistanceProvider, now time.Time) *domain.RiderLoad {
	var (
		best      *domain.RiderLoad
		bestScore float64
	)
	for _, r := range pool {
		if !r.HasSlack() {
			continue
		}
		sc := score(o, r, s, dist, now)
		if best == nil || sc > bestScore || (sc == bestScore && beats(r, best)) {
			best = r
			bestScore = sc
		}
	}
	return best
}

func beats(a, b *domain.RiderLoad) bool {
	if a.CurrentOrders != b.CurrentOrders {
		return a.CurrentOrders < b.CurrentOrders
	}
	if !a.LastActiveAt.Equal(b.LastActiveAt) {
		return a.LastActiveAt.Before(b.LastActiveAt)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
