package tsp

import (
	"context"
	"math/rand"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/model/station"
	"optiroute/internal/core/ports"
)

// Stage algorithm names, in pipeline order.
const (
	StageNearest  = "nearest"
	StageTwoOpt   = "2opt"
	StageThreeOpt = "3opt"
	StageGenetic  = "genetic"
)

// Stage is one pipeline step's output, kept for diagnostics.
type Stage struct {
	Algo       string
	Route      []int
	DistanceKm float64
}

// Plan is the refined tour for one courier: the point sequence, the oracle
// matrices it was optimized against, every stage's route and the canonical
// final permutation (the genetic stage's output).
type Plan struct {
	Points    []kernel.GeoPoint
	Distances [][]float64
	Durations [][]float64
	Stages    []Stage
	Final     []int
}

// Refiner runs the four-stage pipeline for one courier's order list. It is
// safe to reuse across couriers within a run; the rng makes runs
// reproducible.
type Refiner struct {
	oracle   ports.RouteOracle
	stations []*station.RechargeStation
	cfg      GeneticConfig
	rng      *rand.Rand
}

// NewRefiner creates a refiner backed by the given oracle and station
// catalog.
func NewRefiner(oracle ports.RouteOracle, stations []*station.RechargeStation, cfg GeneticConfig, rng *rand.Rand) *Refiner {
	return &Refiner{oracle: oracle, stations: stations, cfg: cfg, rng: rng}
}

// Refine builds the point sequence [depot, orders...], fetches the pairwise
// matrices in a single oracle call and runs nearest-neighbor, 2-opt, 3-opt
// and the genetic refiner in sequence. latenessCoeff is the scenario
// multiplier applied to window lateness in the genetic fitness.
//
// Oracle failures propagate; the caller decides whether a haversine
// fallback applies.
func (r *Refiner) Refine(ctx context.Context, c *courier.Courier, orders []*order.Order, latenessCoeff float64) (*Plan, error) {
	points := make([]kernel.GeoPoint, 0, len(orders)+1)
	points = append(points, c.Depot())
	for _, o := range orders {
		points = append(points, o.Location())
	}

	distKm, durMin, err := r.oracle.Table(ctx, points)
	if err != nil {
		return nil, err
	}

	nearest := NearestNeighbor(distKm)
	twoOpt := TwoOpt(nearest, distKm)
	threeOpt := ThreeOpt(twoOpt, distKm)

	eval := &FitnessEvaluator{
		Courier:       c,
		Orders:        orders,
		DistKm:        distKm,
		DurMin:        durMin,
		Stations:      r.stations,
		LatenessCoeff: latenessCoeff,
	}
	genetic := Genetic(threeOpt, eval, r.cfg, r.rng)

	return &Plan{
		Points:    points,
		Distances: distKm,
		Durations: durMin,
		Stages: []Stage{
			{Algo: StageNearest, Route: nearest, DistanceKm: RouteDistance(nearest, distKm)},
			{Algo: StageTwoOpt, Route: twoOpt, DistanceKm: RouteDistance(twoOpt, distKm)},
			{Algo: StageThreeOpt, Route: threeOpt, DistanceKm: RouteDistance(threeOpt, distKm)},
			{Algo: StageGenetic, Route: genetic, DistanceKm: RouteDistance(genetic, distKm)},
		},
		Final: genetic,
	}, nil
}
