package kernel_test

import (
	"testing"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	t.Run("valid time", func(t *testing.T) {
		tod, err := kernel.ParseTimeOfDay("08:30")

		require.NoError(t, err)
		assert.Equal(t, 510, tod.Minutes())
		assert.Equal(t, "08:30", tod.String())
	})

	t.Run("midnight", func(t *testing.T) {
		tod, err := kernel.ParseTimeOfDay("00:00")

		require.NoError(t, err)
		assert.Zero(t, tod.Minutes())
	})

	t.Run("malformed strings", func(t *testing.T) {
		for _, s := range []string{"", "8h30", "08:30:00", "ab:cd", "08-30"} {
			_, err := kernel.ParseTimeOfDay(s)
			require.Error(t, err, s)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, s)
		}
	})

	t.Run("out of range components", func(t *testing.T) {
		for _, s := range []string{"24:00", "12:60", "-1:30"} {
			_, err := kernel.ParseTimeOfDay(s)
			require.Error(t, err, s)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, s)
		}
	})
}

func TestTimeOfDay_Arithmetic(t *testing.T) {
	t.Run("add minutes", func(t *testing.T) {
		tod, _ := kernel.ParseTimeOfDay("08:00")

		assert.Equal(t, "09:30", tod.AddMinutes(90).String())
	})

	t.Run("overtime keeps accumulating hours", func(t *testing.T) {
		tod, _ := kernel.ParseTimeOfDay("23:30")

		assert.Equal(t, "25:00", tod.AddMinutes(90).String())
	})

	t.Run("in window is a closed interval", func(t *testing.T) {
		start, _ := kernel.ParseTimeOfDay("08:00")
		end, _ := kernel.ParseTimeOfDay("18:00")

		assert.True(t, start.InWindow(start, end))
		assert.True(t, end.InWindow(start, end))

		before, _ := kernel.ParseTimeOfDay("07:59")
		assert.False(t, before.InWindow(start, end))

		after, _ := kernel.ParseTimeOfDay("18:01")
		assert.False(t, after.InWindow(start, end))
	})

	t.Run("negative minutes rejected", func(t *testing.T) {
		_, err := kernel.NewTimeOfDay(-1)
		require.Error(t, err)
	})
}
