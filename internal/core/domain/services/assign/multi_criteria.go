package assign

import (
	"sort"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/order"
)

// Weights of the multi-criteria cost terms.
const (
	mcPriorityWeight = 1.2
	mcLoadWeight     = 5.0
)

// MultiCriteria is the workhorse greedy solver: orders are processed most
// constrained first (urgent before flexible, heavy before light) and each
// picks the courier minimizing a composite of distance, priority penalty and
// relative load. It is also the fallback when branch-and-bound times out.
type MultiCriteria struct {
	cfg Config
}

// Assign places orders one by one onto the cheapest feasible courier.
// Orders with no feasible courier become Unassigned.
func (s *MultiCriteria) Assign(couriers []*courier.Courier, orders []*order.Order, scenario Scenario) (*Result, error) {
	feas := newFeasibility()
	deliverable, rejected := splitByWeather(orders, s.cfg.Weather, feas)

	res := emptyResult(couriers)
	res.Unassigned = append(res.Unassigned, rejected...)

	// Most constrained first: urgent priority, then heavier parcels.
	sorted := append([]*order.Order(nil), deliverable...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Priority() != sorted[b].Priority() {
			return sorted[a].Priority() < sorted[b].Priority()
		}
		return sorted[a].WeightKg() > sorted[b].WeightKg()
	})

	loads := make(map[string]float64, len(couriers))
	coeff := scenario.Coefficient()

	for _, o := range sorted {
		bestIdx := -1
		bestCost := 0.0

		for ci, c := range couriers {
			if !feas.canTake(c, loads[c.ID()], o) {
				continue
			}

			cost := (haversine(c.Depot(), o.Location()) +
				mcPriorityWeight*priorityPenalty(o.Priority()) +
				mcLoadWeight*o.WeightKg()/(c.CapacityKg()+1)) * coeff

			if bestIdx < 0 || cost < bestCost {
				bestIdx = ci
				bestCost = cost
			}
		}

		if bestIdx < 0 {
			res.Unassigned = append(res.Unassigned, o)
			continue
		}

		c := couriers[bestIdx]
		loads[c.ID()] += o.WeightKg()
		res.Assignments[c.ID()] = append(res.Assignments[c.ID()], o)
		res.TotalCost += bestCost
	}

	res.noteRejections(feas)
	return res, nil
}
