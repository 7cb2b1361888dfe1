package validation_test

import (
	"testing"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/services/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourier(t *testing.T, capacityKg float64) *courier.Courier {
	t.Helper()
	depot, _ := kernel.NewGeoPoint(48.8566, 2.3522)
	start, _ := kernel.ParseTimeOfDay("08:00")
	end, _ := kernel.ParseTimeOfDay("18:00")

	c, err := courier.NewCourier("C1", "Alice", depot, capacityKg, 25, 0.5, start, end)
	require.NoError(t, err)
	return c
}

func testOrder(t *testing.T, weightKg float64) *order.Order {
	t.Helper()
	loc, _ := kernel.NewGeoPoint(48.86, 2.35)
	o, err := order.NewOrder("L1", loc, weightKg, order.PriorityNormal)
	require.NoError(t, err)
	return o
}

func TestCapacityValidator_CanAdd(t *testing.T) {
	v := validation.NewCapacityValidator()

	t.Run("within capacity", func(t *testing.T) {
		ok, reason := v.CanAdd(testCourier(t, 20), 10, testOrder(t, 5))

		assert.True(t, ok)
		assert.Empty(t, reason)
	})

	t.Run("exactly at capacity passes", func(t *testing.T) {
		ok, _ := v.CanAdd(testCourier(t, 20), 15, testOrder(t, 5))
		assert.True(t, ok)
	})

	t.Run("overflow is rejected with the overflow amounts", func(t *testing.T) {
		ok, reason := v.CanAdd(testCourier(t, 20), 18, testOrder(t, 5))

		assert.False(t, ok)
		assert.Equal(t, "Poids dépassé: 23.0 kg > 20.0 kg", reason)
	})
}

func TestScheduleValidator_IsAvailable(t *testing.T) {
	v := validation.NewScheduleValidator()

	t.Run("inside the work window", func(t *testing.T) {
		at, _ := kernel.ParseTimeOfDay("12:00")
		ok, _ := v.IsAvailable(testCourier(t, 20), at)
		assert.True(t, ok)
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		c := testCourier(t, 20)
		ok, _ := v.IsAvailable(c, c.WorkStart())
		assert.True(t, ok)
		ok, _ = v.IsAvailable(c, c.WorkEnd())
		assert.True(t, ok)
	})

	t.Run("outside the window", func(t *testing.T) {
		at, _ := kernel.ParseTimeOfDay("19:00")
		ok, reason := v.IsAvailable(testCourier(t, 20), at)

		assert.False(t, ok)
		assert.NotEmpty(t, reason)
	})

	t.Run("unavailable courier", func(t *testing.T) {
		c := testCourier(t, 20)
		c.SetAvailable(false)
		at, _ := kernel.ParseTimeOfDay("12:00")

		ok, reason := v.IsAvailable(c, at)

		assert.False(t, ok)
		assert.Contains(t, reason, "C1")
	})
}

func TestWeatherValidators(t *testing.T) {
	paris, _ := kernel.NewGeoPoint(48.8566, 2.3522)
	lyon, _ := kernel.NewGeoPoint(45.7640, 4.8357)

	t.Run("clear skies allows everything", func(t *testing.T) {
		ok, _ := validation.ClearSkies{}.Allows(paris)
		assert.True(t, ok)
	})

	t.Run("static forecast blocks the danger zone", func(t *testing.T) {
		forecast := validation.StaticForecast{Danger: paris, RadiusKm: 10}

		ok, reason := forecast.Allows(paris)
		assert.False(t, ok)
		assert.NotEmpty(t, reason)

		ok, _ = forecast.Allows(lyon)
		assert.True(t, ok)
	})
}
