package geo

import (
	"math"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/domain"
)

const (
	// EarthRadiusKm is Earth's radius in kilometers for Haversine calculation.
	EarthRadiusKm = 6371.0
	// SentinelDistanceKm is returned when either point has no coordinates.
	// It is far beyond any assignment radius, so such pairs score zero on
	// distance instead of erroring.
	SentinelDistanceKm = 1e6
)

// DistanceProvider computes the distance between two points in kilometers.
// Implementations always succeed; missing coordinates yield a sentinel.
type DistanceProvider interface {
	DistanceKm(a, b *domain.Point) float64
}

// Haversine is a DistanceProvider backed by the great-circle formula.
type Haversine struct{}

// DistanceKm returns the great-circle distance between a and b in
// kilometers, or SentinelDistanceKm when either point is unknown.
func (Haversine) DistanceKm(a, b *domain.Point) float64 {
	if a == nil || b == nil {
		return SentinelDistanceKm
	}
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// HaversineKm calculates the great-circle distance between two points
// on Earth in kilometers using the Haversine formula.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}
