package assign

import (
	"fmt"
	"math/rand"
	"time"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/services/validation"
	"optiroute/internal/pkg/errs"
)

// Solver names accepted by New.
const (
	SolverBranchAndBound  = "branch_and_bound"
	SolverClusteredGreedy = "clustered_greedy"
	SolverMultiCriteria   = "multi_criteria"
	SolverZoneSeeded      = "zone_seeded"
)

// Defaults applied by New when the Config leaves a knob unset.
const (
	DefaultDeadline     = 10 * time.Second
	DefaultZoneRadiusKm = 5.0
)

// Result is the outcome of one assignment: a courier to ordered-order-list
// mapping, the orders no courier could take, and the solver's own cost
// total. Every input order appears exactly once, either in Assignments or
// in Unassigned.
type Result struct {
	Assignments map[string][]*order.Order
	Unassigned  []*order.Order
	TotalCost   float64

	// Reasons maps an unassigned order's ID to the validator's last
	// rejection reason ("Poids dépassé: …", weather zone, off-shift
	// courier). Orders rejected for purely structural reasons (no courier
	// at all, zone budget) have no entry.
	Reasons map[string]string
}

// Solver partitions orders across couriers under capacity, availability and
// weather constraints.
type Solver interface {
	Assign(couriers []*courier.Courier, orders []*order.Order, scenario Scenario) (*Result, error)
}

// Config carries the solver knobs shared by the strategies. The zero value
// is usable: New fills in defaults.
type Config struct {
	// Deadline bounds the branch-and-bound search (default 10s).
	Deadline time.Duration
	// ZoneRadiusKm is the zone-seeded solver's zone radius (default 5 km).
	ZoneRadiusKm float64
	// KMeansIterations bounds the clustering rounds (default 10).
	KMeansIterations int
	// Weather excludes dangerous delivery locations (default ClearSkies).
	Weather validation.WeatherValidator
	// Rand drives clustering seeding; required for reproducible runs.
	Rand *rand.Rand
}

func (c Config) withDefaults() Config {
	if c.Deadline <= 0 {
		c.Deadline = DefaultDeadline
	}
	if c.ZoneRadiusKm <= 0 {
		c.ZoneRadiusKm = DefaultZoneRadiusKm
	}
	if c.Weather == nil {
		c.Weather = validation.ClearSkies{}
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(42)) //nolint:gosec // reproducibility, not crypto
	}
	return c
}

// New creates the solver selected by name. Unknown names fail with a
// value-is-invalid error so configuration typos surface at startup.
func New(name string, cfg Config) (Solver, error) {
	cfg = cfg.withDefaults()

	switch name {
	case SolverBranchAndBound:
		return &BranchAndBound{cfg: cfg}, nil
	case SolverClusteredGreedy:
		return &ClusteredGreedy{cfg: cfg}, nil
	case SolverMultiCriteria:
		return &MultiCriteria{cfg: cfg}, nil
	case SolverZoneSeeded:
		return &ZoneSeeded{cfg: cfg}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("solver",
			fmt.Errorf("%q is not a known solver", name))
	}
}

// Score rates a (courier, order) pair in [0, 1]: closeness to the depot
// weighted 0.6 and urgency weighted 0.4. A pair failing schedule or
// capacity validation scores 0.
func Score(c *courier.Courier, o *order.Order) float64 {
	return newFeasibility().score(c, o)
}

// feasibility bundles the schedule and capacity validators shared by every
// solver and records, per order, the last reason a pairing was refused.
// Reasons of orders that end up unassigned are surfaced on the Result.
type feasibility struct {
	capacity *validation.CapacityValidator
	schedule *validation.ScheduleValidator
	reasons  map[string]string
}

func newFeasibility() *feasibility {
	return &feasibility{
		capacity: validation.NewCapacityValidator(),
		schedule: validation.NewScheduleValidator(),
		reasons:  make(map[string]string),
	}
}

// canTake checks the courier's schedule at tour departure, then the
// capacity left after loadKg. A refusal records the validator's reason.
func (f *feasibility) canTake(c *courier.Courier, loadKg float64, o *order.Order) bool {
	if ok, reason := f.schedule.IsAvailable(c, c.WorkStart()); !ok {
		f.reasons[o.ID()] = reason
		return false
	}
	if ok, reason := f.capacity.CanAdd(c, loadKg, o); !ok {
		f.reasons[o.ID()] = reason
		return false
	}
	return true
}

// score is Score with reason recording, for the matrix-based solvers: an
// infeasible pair scores 0 and lands on a blocked cell.
func (f *feasibility) score(c *courier.Courier, o *order.Order) float64 {
	if !f.canTake(c, 0, o) {
		return 0
	}

	distance := c.Depot().HaversineTo(o.Location())
	return 0.6*(1/(1+distance)) + 0.4*float64(4-o.Priority())/3
}

// noteRejections copies onto the Result the recorded reasons of the orders
// that ended up unassigned.
func (r *Result) noteRejections(f *feasibility) {
	for _, o := range r.Unassigned {
		reason, ok := f.reasons[o.ID()]
		if !ok {
			continue
		}
		if r.Reasons == nil {
			r.Reasons = make(map[string]string, len(r.Unassigned))
		}
		r.Reasons[o.ID()] = reason
	}
}

// priorityPenalty maps priority {1, 2, 3} to the greedy cost penalty
// {0, 2, 5}: flexible orders pay to be scheduled early.
func priorityPenalty(priority int) float64 {
	switch priority {
	case order.PriorityUrgent:
		return 0
	case order.PriorityNormal:
		return 2
	default:
		return 5
	}
}

// splitByWeather applies the weather hard filter shared by every solver:
// orders in a dangerous zone never enter the search and land directly in
// Unassigned, with the validator's reason recorded.
func splitByWeather(orders []*order.Order, weather validation.WeatherValidator, f *feasibility) (deliverable, rejected []*order.Order) {
	for _, o := range orders {
		if ok, reason := weather.Allows(o.Location()); ok {
			deliverable = append(deliverable, o)
		} else {
			f.reasons[o.ID()] = reason
			rejected = append(rejected, o)
		}
	}
	return deliverable, rejected
}

// emptyResult builds a Result with one empty slot per courier.
func emptyResult(couriers []*courier.Courier) *Result {
	res := &Result{Assignments: make(map[string][]*order.Order, len(couriers))}
	for _, c := range couriers {
		res.Assignments[c.ID()] = nil
	}
	return res
}

func haversine(a, b kernel.GeoPoint) float64 {
	return a.HaversineTo(b)
}
