package assignment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/apperr"
	"github.com/dannielcanaryquipia/capstone-project2-sub000/internal/config"
)

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(config.Assignment{
		MaxOrdersPerRider:  5,
		RadiusKm:           15,
		DistanceWeight:     0.5,
		AvailabilityWeight: 0.25,
		UrgencyWeight:      0.25,
	})
	require.Equal(t, 5, s.MaxOrdersPerRider)
	require.Equal(t, float64(15), s.RadiusKm)
}

func TestSettingsStore_RejectsInvalidSeed(t *testing.T) {
	_, err := NewSettingsStore(Settings{})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSettingsStore_UpdateSwapsSnapshot(t *testing.T) {
	store, err := NewSettingsStore(defaultSettings())
	require.NoError(t, err)

	next := defaultSettings()
	next.UrgencyWeight = 0.5
	require.NoError(t, store.Update(next))
	require.Equal(t, 0.5, store.Current().UrgencyWeight)

	next.RadiusKm = -1
	require.ErrorIs(t, store.Update(next), apperr.ErrValidation)
	// The bad update left the previous snapshot in place.
	require.Equal(t, float64(10), store.Current().RadiusKm)
}
