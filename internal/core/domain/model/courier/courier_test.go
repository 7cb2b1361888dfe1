package courier_test

import (
	"testing"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourier(t *testing.T) *courier.Courier {
	t.Helper()
	depot, err := kernel.NewGeoPoint(48.8566, 2.3522)
	require.NoError(t, err)
	start, err := kernel.ParseTimeOfDay("08:00")
	require.NoError(t, err)
	end, err := kernel.ParseTimeOfDay("18:00")
	require.NoError(t, err)

	c, err := courier.NewCourier("C1", "Alice", depot, 20, 25, 0.5, start, end)
	require.NoError(t, err)
	return c
}

func TestNewCourier(t *testing.T) {
	t.Run("valid courier", func(t *testing.T) {
		c := testCourier(t)

		require.NoError(t, c.Validate())
		assert.Equal(t, "C1", c.ID())
		assert.Equal(t, "Alice", c.Name())
		assert.True(t, c.IsAvailable())
		assert.Nil(t, c.Battery())
		assert.Equal(t, 600, c.WorkdayMinutes())
	})

	t.Run("empty id fails", func(t *testing.T) {
		depot, _ := kernel.NewGeoPoint(48.86, 2.35)
		start, _ := kernel.ParseTimeOfDay("08:00")
		end, _ := kernel.ParseTimeOfDay("18:00")

		_, err := courier.NewCourier("", "Alice", depot, 20, 25, 0.5, start, end)
		require.Error(t, err)
	})

	t.Run("non-positive capacity fails", func(t *testing.T) {
		depot, _ := kernel.NewGeoPoint(48.86, 2.35)
		start, _ := kernel.ParseTimeOfDay("08:00")
		end, _ := kernel.ParseTimeOfDay("18:00")

		_, err := courier.NewCourier("C1", "Alice", depot, 0, 25, 0.5, start, end)
		require.Error(t, err)
	})

	t.Run("inverted work window fails", func(t *testing.T) {
		depot, _ := kernel.NewGeoPoint(48.86, 2.35)
		start, _ := kernel.ParseTimeOfDay("18:00")
		end, _ := kernel.ParseTimeOfDay("08:00")

		_, err := courier.NewCourier("C1", "Alice", depot, 20, 25, 0.5, start, end)
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var c courier.Courier
		require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)
	})
}

func TestCourier_TravelMinutes(t *testing.T) {
	c := testCourier(t)

	// 25 km at 25 km/h is one hour.
	assert.InDelta(t, 60, c.TravelMinutes(25), 1e-9)
}

func TestCourier_Clone(t *testing.T) {
	c := testCourier(t)
	battery, err := courier.NewBattery(90, 1.5)
	require.NoError(t, err)
	require.NoError(t, c.SetBattery(battery))

	clone := c.Clone()
	clone.SetAvailable(false)
	clone.Battery().Drain(30)

	assert.True(t, c.IsAvailable())
	assert.InDelta(t, 90, c.Battery().Remaining(), 1e-9)
	assert.InDelta(t, 60, clone.Battery().Remaining(), 1e-9)
}

func TestBattery(t *testing.T) {
	t.Run("starts fully charged", func(t *testing.T) {
		b, err := courier.NewBattery(90, 1.5)

		require.NoError(t, err)
		assert.InDelta(t, 90, b.Remaining(), 1e-9)
		assert.True(t, b.CanCover(90))
		assert.False(t, b.CanCover(90.1))
	})

	t.Run("drain clamps at zero", func(t *testing.T) {
		b, _ := courier.NewBattery(90, 1.5)

		b.Drain(100)
		assert.Zero(t, b.Remaining())
	})

	t.Run("recharge duration follows rate", func(t *testing.T) {
		b, _ := courier.NewBattery(90, 1.5)
		b.Drain(80)

		duration := b.RechargeFully()

		assert.InDelta(t, (90.0-10.0)/1.5, duration, 1e-9)
		assert.InDelta(t, 90, b.Remaining(), 1e-9)
	})

	t.Run("restore clamps remaining", func(t *testing.T) {
		b, err := courier.RestoreBattery(90, 120, 1.5)

		require.NoError(t, err)
		assert.InDelta(t, 90, b.Remaining(), 1e-9)
	})

	t.Run("non-positive capacity fails", func(t *testing.T) {
		_, err := courier.NewBattery(0, 1.5)
		require.Error(t, err)
	})
}
