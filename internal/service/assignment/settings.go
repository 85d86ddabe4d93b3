package assignment

import (
	"fmt"
	"sync/atomic"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/config"
)

// Settings is one immutable snapshot of the matching parameters. Weights
// are not required to sum to 1; scores only rank riders within one sweep,
// and normalizing here could flip tie-break outcomes callers rely on.
type Settings struct {
	MaxOrdersPerRider  int     `json:"max_orders_per_rider"`
	RadiusKm           float64 `json:"radius_km"`
	DistanceWeight     float64 `json:"distance_weight"`
	AvailabilityWeight float64 `json:"availability_weight"`
	UrgencyWeight      float64 `json:"urgency_weight"`
}

// SettingsFromConfig seeds a snapshot from startup configuration.
func SettingsFromConfig(a config.Assignment) Settings {
	return Settings{
		MaxOrdersPerRider:  a.MaxOrdersPerRider,
		RadiusKm:           a.RadiusKm,
		DistanceWeight:     a.DistanceWeight,
		AvailabilityWeight: a.AvailabilityWeight,
		UrgencyWeight:      a.UrgencyWeight,
	}
}

func (s Settings) validate() error {
	if s.MaxOrdersPerRider < 1 {
		return fmt.Errorf("%w: max orders per rider must be at least 1", apperr.ErrValidation)
	}
	if s.RadiusKm <= 0 {
		return fmt.Errorf("%w: radius must be positive", apperr.ErrValidation)
	}
	if s.DistanceWeight < 0 || s.AvailabilityWeight < 0 || s.UrgencyWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative", apperr.ErrValidation)
	}
	if s.DistanceWeight+s.AvailabilityWeight+s.UrgencyWeight == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", apperr.ErrValidation)
	}
	return nil
}

// SettingsStore holds the live matching parameters behind an atomic
// pointer, so admin updates take effect on the next sweep without a
// restart and without locking the hot path.
type SettingsStore struct {
	cur atomic.Pointer[Settings]
}

// NewSettingsStore creates a store seeded with the given snapshot.
func NewSettingsStore(seed Settings) (*SettingsStore, error) {
	if err := seed.validate(); err != nil {
		return nil, err
	}
	s := &SettingsStore{}
	s.cur.Store(&seed)
	return s, nil
}

// Current returns the live snapshot.
func (s *SettingsStore) Current() Settings {
	return *s.cur.Load()
}

// Update validates and swaps in a new snapshot.
func (s *SettingsStore) Update(next Settings) error {
	if err := next.validate(); err != nil {
		return err
	}
	s.cur.Store(&next)
	return nil
}
