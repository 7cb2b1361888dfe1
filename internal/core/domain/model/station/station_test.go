package station_test

import (
	"testing"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/station"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func TestNewRechargeStation(t *testing.T) {
	t.Run("valid station", func(t *testing.T) {
		s, err := station.NewRechargeStation("S1", point(t, 48.86, 2.35), "Bastille")

		require.NoError(t, err)
		require.NoError(t, s.Validate())
		assert.Equal(t, "S1", s.ID())
		assert.Equal(t, "Bastille", s.Name())
	})

	t.Run("empty id fails", func(t *testing.T) {
		_, err := station.NewRechargeStation("", point(t, 48.86, 2.35), "")
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var s station.RechargeStation
		require.ErrorIs(t, s.Validate(), station.ErrStationIsNotConstructed)
	})
}

func TestNearest(t *testing.T) {
	near, _ := station.NewRechargeStation("S1", point(t, 48.86, 2.35), "")
	far, _ := station.NewRechargeStation("S2", point(t, 45.76, 4.83), "")

	t.Run("picks the closest station", func(t *testing.T) {
		got := station.Nearest(point(t, 48.85, 2.34), []*station.RechargeStation{far, near})
		require.NotNil(t, got)
		assert.Equal(t, "S1", got.ID())
	})

	t.Run("empty catalog gives nil", func(t *testing.T) {
		assert.Nil(t, station.Nearest(point(t, 48.85, 2.34), nil))
	})

	t.Run("tie keeps the first station", func(t *testing.T) {
		a, _ := station.NewRechargeStation("A", point(t, 48.86, 2.35), "")
		b, _ := station.NewRechargeStation("B", point(t, 48.86, 2.35), "")

		got := station.Nearest(point(t, 48.85, 2.34), []*station.RechargeStation{a, b})
		assert.Equal(t, "A", got.ID())
	})
}
