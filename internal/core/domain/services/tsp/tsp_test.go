package tsp_test

import (
	"context"
	"math/rand"
	"testing"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/services/tsp"
	"optiroute/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// haversineOracle implements ports.RouteOracle from straight-line
// distances at 30 km/h, so tests never touch the network.
type haversineOracle struct{}

func (haversineOracle) Table(_ context.Context, points []kernel.GeoPoint) ([][]float64, [][]float64, error) {
	n := len(points)
	dist := make([][]float64, n)
	dur := make([][]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			km := points[i].HaversineTo(points[j])
			dist[i][j] = km
			dur[i][j] = km / 30 * 60
		}
	}
	return dist, dur, nil
}

func (haversineOracle) Route(_ context.Context, from, to kernel.GeoPoint) (ports.Leg, error) {
	km := from.HaversineTo(to)
	return ports.Leg{DistanceKm: km, DurationMin: km / 30 * 60}, nil
}

func (haversineOracle) RouteFull(_ context.Context, points []kernel.GeoPoint) (ports.RouteGeometry, error) {
	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += points[i].HaversineTo(points[i+1])
	}
	return ports.RouteGeometry{DistanceKm: total, DurationMin: total / 30 * 60, Geometry: points}, nil
}

func makeCourier(t *testing.T) *courier.Courier {
	t.Helper()
	depot, _ := kernel.NewGeoPoint(48.8566, 2.3522)
	start, _ := kernel.ParseTimeOfDay("08:00")
	end, _ := kernel.ParseTimeOfDay("18:00")
	c, err := courier.NewCourier("C1", "Alice", depot, 100, 30, 0.5, start, end)
	require.NoError(t, err)
	return c
}

func makeOrder(t *testing.T, id string, lat, lon float64) *order.Order {
	t.Helper()
	loc, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	o, err := order.NewOrder(id, loc, 1, order.PriorityNormal)
	require.NoError(t, err)
	return o
}

func assertPermutation(t *testing.T, route []int, n int) {
	t.Helper()
	require.Len(t, route, n+1)
	require.Equal(t, 0, route[0])
	seen := make(map[int]bool, len(route))
	for _, idx := range route {
		require.False(t, seen[idx], "index %d repeated", idx)
		seen[idx] = true
	}
}

func TestNearestNeighbor(t *testing.T) {
	t.Run("follows the chain", func(t *testing.T) {
		dist := [][]float64{
			{0, 1, 4, 9},
			{1, 0, 1, 4},
			{4, 1, 0, 1},
			{9, 4, 1, 0},
		}

		assert.Equal(t, []int{0, 1, 2, 3}, tsp.NearestNeighbor(dist))
	})

	t.Run("ties break to the lowest index", func(t *testing.T) {
		dist := [][]float64{
			{0, 2, 2},
			{2, 0, 2},
			{2, 2, 0},
		}

		assert.Equal(t, []int{0, 1, 2}, tsp.NearestNeighbor(dist))
	})
}

func TestTwoOpt(t *testing.T) {
	// Four points on a line; the seed visits them out of order.
	dist := [][]float64{
		{0, 1, 2, 3},
		{1, 0, 1, 2},
		{2, 1, 0, 1},
		{3, 2, 1, 0},
	}
	seed := []int{0, 2, 1, 3}

	improved := tsp.TwoOpt(seed, dist)

	assertPermutation(t, improved, 3)
	assert.LessOrEqual(t, tsp.RouteDistance(improved, dist), tsp.RouteDistance(seed, dist))
	assert.Equal(t, []int{0, 1, 2, 3}, improved)
}

func TestTwoOpt_DirectionalMatrices(t *testing.T) {
	// Road matrices are directional: dist[i][j] != dist[j][i]. Reversing a
	// segment reverses every edge inside it, so the search must never keep
	// a reversal that lengthens the tour, and must still terminate.
	for n := 4; n <= 9; n++ {
		for s := int64(0); s < 20; s++ {
			rng := rand.New(rand.NewSource(s))

			dist := make([][]float64, n)
			for i := range dist {
				dist[i] = make([]float64, n)
				for j := range dist[i] {
					if i != j {
						dist[i][j] = 1 + 9*rng.Float64()
					}
				}
			}

			seed := make([]int, 0, n)
			seed = append(seed, 0)
			for _, v := range rng.Perm(n - 1) {
				seed = append(seed, v+1)
			}

			improved := tsp.TwoOpt(seed, dist)

			assertPermutation(t, improved, n-1)
			assert.LessOrEqual(t,
				tsp.RouteDistance(improved, dist),
				tsp.RouteDistance(seed, dist)+1e-9,
				"n=%d seed=%d", n, s)
		}
	}
}

func TestThreeOpt(t *testing.T) {
	// Six points on a line, shuffled seed.
	n := 6
	dist := make([][]float64, n+1)
	for i := range dist {
		dist[i] = make([]float64, n+1)
		for j := range dist[i] {
			d := i - j
			if d < 0 {
				d = -d
			}
			dist[i][j] = float64(d)
		}
	}
	seed := []int{0, 3, 1, 5, 2, 6, 4}

	improved := tsp.ThreeOpt(seed, dist)

	assertPermutation(t, improved, n)
	assert.LessOrEqual(t, tsp.RouteDistance(improved, dist), tsp.RouteDistance(seed, dist))
}

func TestWindowLateness(t *testing.T) {
	loc, _ := kernel.NewGeoPoint(48.86, 2.35)

	t.Run("urgent order one hour late costs 360", func(t *testing.T) {
		o, err := order.NewOrder("C1", loc, 1, order.PriorityUrgent)
		require.NoError(t, err)
		start, _ := kernel.ParseTimeOfDay("09:00")
		end, _ := kernel.ParseTimeOfDay("12:00")
		require.NoError(t, o.SetDeliveryWindow(start, end))

		arrival, _ := kernel.ParseTimeOfDay("13:00")
		assert.InDelta(t, 360, tsp.WindowLateness(arrival, o), 1e-9)
	})

	t.Run("on-time arrival costs nothing", func(t *testing.T) {
		o, err := order.NewOrder("C1", loc, 1, order.PriorityUrgent)
		require.NoError(t, err)
		start, _ := kernel.ParseTimeOfDay("09:00")
		end, _ := kernel.ParseTimeOfDay("12:00")
		require.NoError(t, o.SetDeliveryWindow(start, end))

		arrival, _ := kernel.ParseTimeOfDay("12:00")
		assert.Zero(t, tsp.WindowLateness(arrival, o))
	})

	t.Run("no window costs nothing", func(t *testing.T) {
		o, err := order.NewOrder("C1", loc, 1, order.PriorityUrgent)
		require.NoError(t, err)

		arrival, _ := kernel.ParseTimeOfDay("23:00")
		assert.Zero(t, tsp.WindowLateness(arrival, o))
	})
}

func TestFitnessEvaluator(t *testing.T) {
	ctx := context.Background()
	c := makeCourier(t)
	orders := []*order.Order{
		makeOrder(t, "L1", 48.86, 2.36),
		makeOrder(t, "L2", 48.87, 2.37),
	}
	points := []kernel.GeoPoint{c.Depot(), orders[0].Location(), orders[1].Location()}
	dist, dur, err := haversineOracle{}.Table(ctx, points)
	require.NoError(t, err)

	eval := &tsp.FitnessEvaluator{Courier: c, Orders: orders, DistKm: dist, DurMin: dur, LatenessCoeff: 1}

	t.Run("shorter tours score better", func(t *testing.T) {
		good := eval.Fitness([]int{0, 1, 2})
		bad := eval.Fitness([]int{0, 2, 1})

		assert.LessOrEqual(t, good, bad)
	})

	t.Run("scenario coefficient scales lateness", func(t *testing.T) {
		// Tight window that the tour will miss.
		late := makeOrder(t, "LATE", 45.764, 4.836) // Lyon, hours away
		start, _ := kernel.ParseTimeOfDay("08:00")
		end, _ := kernel.ParseTimeOfDay("08:05")
		require.NoError(t, late.SetDeliveryWindow(start, end))

		latePoints := []kernel.GeoPoint{c.Depot(), late.Location()}
		lateDist, lateDur, err := haversineOracle{}.Table(ctx, latePoints)
		require.NoError(t, err)

		normal := &tsp.FitnessEvaluator{Courier: c, Orders: []*order.Order{late}, DistKm: lateDist, DurMin: lateDur, LatenessCoeff: 1}
		incident := &tsp.FitnessEvaluator{Courier: c, Orders: []*order.Order{late}, DistKm: lateDist, DurMin: lateDur, LatenessCoeff: 1.7}

		assert.Greater(t, incident.Fitness([]int{0, 1}), normal.Fitness([]int{0, 1}))
	})
}

func TestGenetic(t *testing.T) {
	ctx := context.Background()
	c := makeCourier(t)
	orders := []*order.Order{
		makeOrder(t, "L1", 48.858, 2.36),
		makeOrder(t, "L2", 48.862, 2.37),
		makeOrder(t, "L3", 48.866, 2.38),
		makeOrder(t, "L4", 48.870, 2.39),
		makeOrder(t, "L5", 48.874, 2.40),
	}
	points := []kernel.GeoPoint{c.Depot()}
	for _, o := range orders {
		points = append(points, o.Location())
	}
	dist, dur, err := haversineOracle{}.Table(ctx, points)
	require.NoError(t, err)

	eval := &tsp.FitnessEvaluator{Courier: c, Orders: orders, DistKm: dist, DurMin: dur, LatenessCoeff: 1}
	cfg := tsp.GeneticConfig{PopulationSize: 30, Generations: 40}

	t.Run("never regresses below the seed", func(t *testing.T) {
		seed := []int{0, 5, 3, 1, 4, 2}

		best := tsp.Genetic(seed, eval, cfg, rand.New(rand.NewSource(42)))

		assertPermutation(t, best, len(orders))
		assert.LessOrEqual(t, eval.Fitness(best), eval.Fitness(seed))
	})

	t.Run("same seed is deterministic", func(t *testing.T) {
		seed := []int{0, 5, 3, 1, 4, 2}

		a := tsp.Genetic(seed, eval, cfg, rand.New(rand.NewSource(7)))
		b := tsp.Genetic(seed, eval, cfg, rand.New(rand.NewSource(7)))

		assert.Equal(t, a, b)
	})

	t.Run("trivial tours pass through", func(t *testing.T) {
		best := tsp.Genetic([]int{0, 1}, eval, cfg, rand.New(rand.NewSource(1)))
		assert.Equal(t, []int{0, 1}, best)
	})
}

func TestRefiner(t *testing.T) {
	c := makeCourier(t)
	orders := []*order.Order{
		makeOrder(t, "L1", 48.858, 2.36),
		makeOrder(t, "L2", 48.862, 2.37),
		makeOrder(t, "L3", 48.866, 2.38),
		makeOrder(t, "L4", 48.870, 2.39),
	}

	refiner := tsp.NewRefiner(haversineOracle{}, nil, tsp.GeneticConfig{PopulationSize: 20, Generations: 20}, rand.New(rand.NewSource(42)))

	plan, err := refiner.Refine(context.Background(), c, orders, 1)
	require.NoError(t, err)

	require.Len(t, plan.Stages, 4)
	assert.Equal(t, tsp.StageNearest, plan.Stages[0].Algo)
	assert.Equal(t, tsp.StageGenetic, plan.Stages[3].Algo)

	// Local search stages are monotonic.
	assert.LessOrEqual(t, plan.Stages[1].DistanceKm, plan.Stages[0].DistanceKm)
	assert.LessOrEqual(t, plan.Stages[2].DistanceKm, plan.Stages[1].DistanceKm)

	assertPermutation(t, plan.Final, len(orders))
	require.Len(t, plan.Points, len(orders)+1)
}
