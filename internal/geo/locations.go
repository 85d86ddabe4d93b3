package geo

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

const riderGeoKey = "assignment:riders"

// LocationStore mirrors rider positions into a Redis GEO set so sweeps
// can pre-filter candidates by radius before scoring. It is advisory:
// the row store stays the source of truth for rider coordinates.
type LocationStore struct {
	redis *redis.Client
}

// NewLocationStore creates a LocationStore. A nil client disables the
// pre-filter; every method then reports "no data".
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{redis: client}
}

// Update records a rider's position.
func (s *LocationStore) Update(ctx context.Context, riderID string, p domain.Point) error {
	if s == nil || s.redis == nil {
		return nil
	}
	return s.redis.GeoAdd(ctx, riderGeoKey, &redis.GeoLocation{
		Name:      riderID,
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err()
}

// Remove drops a rider from the set (rider went offline).
func (s *LocationStore) Remove(ctx context.Context, riderID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	return s.redis.ZRem(ctx, riderGeoKey, riderID).Err()
}

// Nearby returns rider IDs within radiusKm of p, nearest first, and
// whether the set held any data at all. ok=false means the caller should
// fall back to the unfiltered candidate pool.
func (s *LocationStore) Nearby(ctx context.Context, p domain.Point, radiusKm float64) ([]string, bool, error) {
	if s == nil || s.redis == nil {
		return nil, false, nil
	}
	results, err := s.redis.GeoSearch(ctx, riderGeoKey, &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, false, err
	}
	return results, true, nil
}
