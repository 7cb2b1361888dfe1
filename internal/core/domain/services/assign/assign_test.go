package assign_test

import (
	"math/rand"
	"testing"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/services/assign"
	"optiroute/internal/core/domain/services/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCourier(t *testing.T, id string, lat, lon, capacityKg float64) *courier.Courier {
	t.Helper()
	depot, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	start, _ := kernel.ParseTimeOfDay("08:00")
	end, _ := kernel.ParseTimeOfDay("18:00")

	c, err := courier.NewCourier(id, "courier "+id, depot, capacityKg, 25, 0.5, start, end)
	require.NoError(t, err)
	return c
}

func makeOrder(t *testing.T, id string, lat, lon, weightKg float64, priority int) *order.Order {
	t.Helper()
	loc, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)

	o, err := order.NewOrder(id, loc, weightKg, priority)
	require.NoError(t, err)
	return o
}

func testConfig() assign.Config {
	return assign.Config{Rand: rand.New(rand.NewSource(42))}
}

func allSolverNames() []string {
	return []string{
		assign.SolverBranchAndBound,
		assign.SolverClusteredGreedy,
		assign.SolverMultiCriteria,
		assign.SolverZoneSeeded,
	}
}

func TestParseScenario(t *testing.T) {
	tests := []struct {
		in    string
		want  assign.Scenario
		coeff float64
	}{
		{"normal", assign.ScenarioNormal, 1.0},
		{"", assign.ScenarioNormal, 1.0},
		{"peak", assign.ScenarioPeak, 1.3},
		{"incident", assign.ScenarioIncident, 1.7},
	}

	for _, tt := range tests {
		s, err := assign.ParseScenario(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s)
		assert.InDelta(t, tt.coeff, s.Coefficient(), 1e-9)
	}

	_, err := assign.ParseScenario("apocalypse")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, name := range allSolverNames() {
		t.Run(name, func(t *testing.T) {
			s, err := assign.New(name, testConfig())
			require.NoError(t, err)
			require.NotNil(t, s)
		})
	}

	t.Run("unknown solver fails", func(t *testing.T) {
		_, err := assign.New("simulated_annealing", testConfig())
		require.Error(t, err)
	})
}

func TestScore(t *testing.T) {
	c := makeCourier(t, "C1", 48.8566, 2.3522, 20)

	t.Run("closer orders score higher", func(t *testing.T) {
		near := makeOrder(t, "N", 48.857, 2.353, 1, order.PriorityNormal)
		far := makeOrder(t, "F", 45.764, 4.836, 1, order.PriorityNormal)

		assert.Greater(t, assign.Score(c, near), assign.Score(c, far))
	})

	t.Run("urgency raises the score", func(t *testing.T) {
		urgent := makeOrder(t, "U", 48.857, 2.353, 1, order.PriorityUrgent)
		flexible := makeOrder(t, "X", 48.857, 2.353, 1, order.PriorityFlexible)

		assert.Greater(t, assign.Score(c, urgent), assign.Score(c, flexible))
	})

	t.Run("unavailable courier scores zero", func(t *testing.T) {
		off := makeCourier(t, "C2", 48.8566, 2.3522, 20)
		off.SetAvailable(false)

		o := makeOrder(t, "L1", 48.857, 2.353, 1, order.PriorityUrgent)
		assert.Zero(t, assign.Score(off, o))
	})

	t.Run("overweight order scores zero", func(t *testing.T) {
		o := makeOrder(t, "L1", 48.857, 2.353, 50, order.PriorityUrgent)
		assert.Zero(t, assign.Score(c, o))
	})
}

func TestBranchAndBound_PicksNearestPairs(t *testing.T) {
	// Each courier sits next to one of the orders; the optimal matching is
	// the nearest pairing.
	couriers := []*courier.Courier{
		makeCourier(t, "C1", 48.8566, 2.3522, 100), // Paris
		makeCourier(t, "C2", 45.7640, 4.8357, 100), // Lyon
	}
	orders := []*order.Order{
		makeOrder(t, "L1", 48.86, 2.35, 10, order.PriorityNormal), // near Paris
		makeOrder(t, "L2", 45.77, 4.84, 10, order.PriorityNormal), // near Lyon
	}

	s, err := assign.New(assign.SolverBranchAndBound, testConfig())
	require.NoError(t, err)

	res, err := s.Assign(couriers, orders, assign.ScenarioNormal)
	require.NoError(t, err)

	require.Len(t, res.Assignments["C1"], 1)
	require.Len(t, res.Assignments["C2"], 1)
	assert.Equal(t, "L1", res.Assignments["C1"][0].ID())
	assert.Equal(t, "L2", res.Assignments["C2"][0].ID())
	assert.Empty(t, res.Unassigned)
}

func TestMultiCriteria_CapacityOverflow(t *testing.T) {
	// One 100 kg courier cannot take both orders. The urgent one wins; the
	// other stays unassigned.
	couriers := []*courier.Courier{makeCourier(t, "L1", 48.8566, 2.3522, 100)}
	orders := []*order.Order{
		makeOrder(t, "A", 48.86, 2.35, 50, order.PriorityUrgent),
		makeOrder(t, "B", 48.87, 2.36, 60, order.PriorityNormal),
	}

	s, err := assign.New(assign.SolverMultiCriteria, testConfig())
	require.NoError(t, err)

	res, err := s.Assign(couriers, orders, assign.ScenarioNormal)
	require.NoError(t, err)

	require.Len(t, res.Assignments["L1"], 1)
	assert.Equal(t, "A", res.Assignments["L1"][0].ID())
	require.Len(t, res.Unassigned, 1)
	assert.Equal(t, "B", res.Unassigned[0].ID())
	assert.Contains(t, res.Reasons["B"], "Poids dépassé")
}

func TestSolvers_SurfaceRejectionReasons(t *testing.T) {
	couriers := []*courier.Courier{makeCourier(t, "C1", 48.8566, 2.3522, 15)}
	orders := []*order.Order{
		makeOrder(t, "OK", 48.857, 2.353, 5, order.PriorityUrgent),
		makeOrder(t, "HEAVY", 48.858, 2.354, 40, order.PriorityNormal),
	}

	for _, name := range allSolverNames() {
		t.Run(name, func(t *testing.T) {
			s, err := assign.New(name, testConfig())
			require.NoError(t, err)

			res, err := s.Assign(couriers, orders, assign.ScenarioNormal)
			require.NoError(t, err)

			require.Len(t, res.Unassigned, 1)
			assert.Equal(t, "HEAVY", res.Unassigned[0].ID())
			assert.Contains(t, res.Reasons["HEAVY"], "Poids dépassé")
		})
	}

	t.Run("off-shift courier", func(t *testing.T) {
		off := makeCourier(t, "C2", 48.8566, 2.3522, 100)
		off.SetAvailable(false)

		s, err := assign.New(assign.SolverMultiCriteria, testConfig())
		require.NoError(t, err)

		res, err := s.Assign([]*courier.Courier{off}, orders[:1], assign.ScenarioNormal)
		require.NoError(t, err)

		require.Len(t, res.Unassigned, 1)
		assert.Contains(t, res.Reasons["OK"], "indisponible")
	})
}

func TestSolvers_PartitionAndCapacityInvariants(t *testing.T) {
	couriers := []*courier.Courier{
		makeCourier(t, "C1", 48.8566, 2.3522, 15),
		makeCourier(t, "C2", 48.8700, 2.3000, 15),
		makeCourier(t, "C3", 48.8400, 2.4000, 15),
	}
	orders := []*order.Order{
		makeOrder(t, "L1", 48.857, 2.353, 5, order.PriorityUrgent),
		makeOrder(t, "L2", 48.871, 2.301, 8, order.PriorityNormal),
		makeOrder(t, "L3", 48.841, 2.401, 4, order.PriorityFlexible),
		makeOrder(t, "L4", 48.858, 2.354, 6, order.PriorityNormal),
		makeOrder(t, "L5", 48.872, 2.302, 3, order.PriorityUrgent),
		makeOrder(t, "L6", 48.842, 2.402, 9, order.PriorityNormal),
		makeOrder(t, "L7", 48.859, 2.355, 2, order.PriorityFlexible),
		makeOrder(t, "L8", 48.843, 2.403, 40, order.PriorityNormal), // too heavy for anyone
	}

	for _, name := range allSolverNames() {
		t.Run(name, func(t *testing.T) {
			s, err := assign.New(name, testConfig())
			require.NoError(t, err)

			res, err := s.Assign(couriers, orders, assign.ScenarioPeak)
			require.NoError(t, err)

			// Partition: every order appears exactly once.
			seen := map[string]int{}
			for _, assigned := range res.Assignments {
				for _, o := range assigned {
					seen[o.ID()]++
				}
			}
			for _, o := range res.Unassigned {
				seen[o.ID()]++
			}
			require.Len(t, seen, len(orders))
			for id, n := range seen {
				assert.Equal(t, 1, n, "order %s appears %d times", id, n)
			}

			// Capacity: no courier is overloaded.
			for _, c := range couriers {
				load := 0.0
				for _, o := range res.Assignments[c.ID()] {
					load += o.WeightKg()
				}
				assert.LessOrEqual(t, load, c.CapacityKg())
			}

			// The overweight order can never be assigned.
			for _, o := range res.Unassigned {
				if o.ID() == "L8" {
					return
				}
			}
			t.Fatal("overweight order L8 was assigned")
		})
	}
}

func TestSolvers_WeatherHardFilter(t *testing.T) {
	danger, _ := kernel.NewGeoPoint(48.86, 2.35)
	cfg := testConfig()
	cfg.Weather = validation.StaticForecast{Danger: danger, RadiusKm: 2}

	couriers := []*courier.Courier{makeCourier(t, "C1", 48.8566, 2.3522, 100)}
	orders := []*order.Order{
		makeOrder(t, "BLOCKED", 48.86, 2.35, 5, order.PriorityUrgent),
		makeOrder(t, "OK", 45.764, 4.836, 5, order.PriorityNormal),
	}

	for _, name := range allSolverNames() {
		t.Run(name, func(t *testing.T) {
			s, err := assign.New(name, cfg)
			require.NoError(t, err)

			res, err := s.Assign(couriers, orders, assign.ScenarioNormal)
			require.NoError(t, err)

			ids := make([]string, 0, len(res.Unassigned))
			for _, o := range res.Unassigned {
				ids = append(ids, o.ID())
			}
			assert.Contains(t, ids, "BLOCKED")
			assert.Contains(t, res.Reasons["BLOCKED"], "zone météo")
		})
	}
}

func TestZoneSeeded_KeepsZonesCoherent(t *testing.T) {
	// Two couriers, two tight groups of orders around their depots. Each
	// courier must serve its own group.
	couriers := []*courier.Courier{
		makeCourier(t, "C1", 48.8566, 2.3522, 100), // Paris
		makeCourier(t, "C2", 45.7640, 4.8357, 100), // Lyon
	}
	orders := []*order.Order{
		makeOrder(t, "P1", 48.857, 2.353, 5, order.PriorityNormal),
		makeOrder(t, "P2", 48.858, 2.354, 5, order.PriorityNormal),
		makeOrder(t, "LY1", 45.765, 4.836, 5, order.PriorityNormal),
		makeOrder(t, "LY2", 45.766, 4.837, 5, order.PriorityNormal),
	}

	s, err := assign.New(assign.SolverZoneSeeded, testConfig())
	require.NoError(t, err)

	res, err := s.Assign(couriers, orders, assign.ScenarioNormal)
	require.NoError(t, err)

	assert.Empty(t, res.Unassigned)
	for _, o := range res.Assignments["C1"] {
		assert.Contains(t, []string{"P1", "P2"}, o.ID())
	}
	for _, o := range res.Assignments["C2"] {
		assert.Contains(t, []string{"LY1", "LY2"}, o.ID())
	}
}

func TestClusteredGreedy_EmptyOrders(t *testing.T) {
	couriers := []*courier.Courier{makeCourier(t, "C1", 48.8566, 2.3522, 100)}

	s, err := assign.New(assign.SolverClusteredGreedy, testConfig())
	require.NoError(t, err)

	res, err := s.Assign(couriers, nil, assign.ScenarioNormal)
	require.NoError(t, err)
	assert.Empty(t, res.Unassigned)
	assert.Empty(t, res.Assignments["C1"])
}
