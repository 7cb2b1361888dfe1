package assign

import (
	"sort"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/services/cluster"
)

// maxSlotsPerCourier caps the virtual slots a courier exposes per cluster,
// so one cheap courier cannot absorb a whole zone.
const maxSlotsPerCourier = 6

// ClusteredGreedy splits orders into geographic clusters with k-means, then
// greedily claims each order to the cheapest feasible courier slot inside
// its cluster. The slot mechanism spreads a cluster across the fleet instead
// of letting the closest courier take everything.
type ClusteredGreedy struct {
	cfg Config
}

// Assign partitions orders with k = min(max(1, |orders|/8 + 1), |couriers|)
// clusters, prices each (slot, order) pair as depot distance plus the
// scenario-scaled priority penalty, and claims pairs by ascending cost under
// capacity and availability constraints.
func (s *ClusteredGreedy) Assign(couriers []*courier.Courier, orders []*order.Order, scenario Scenario) (*Result, error) {
	feas := newFeasibility()
	deliverable, rejected := splitByWeather(orders, s.cfg.Weather, feas)

	res := emptyResult(couriers)
	res.Unassigned = append(res.Unassigned, rejected...)
	if len(deliverable) == 0 || len(couriers) == 0 {
		res.Unassigned = append(res.Unassigned, deliverable...)
		res.noteRejections(feas)
		return res, nil
	}

	k := len(deliverable)/8 + 1
	if k < 1 {
		k = 1
	}
	if k > len(couriers) {
		k = len(couriers)
	}

	points := make([]kernel.GeoPoint, len(deliverable))
	for i, o := range deliverable {
		points[i] = o.Location()
	}
	clusters := cluster.KMeans(points, k, s.cfg.KMeansIterations, s.cfg.Rand)

	loads := make(map[string]float64, len(couriers))
	claimed := make([]bool, len(deliverable))
	coeff := scenario.Coefficient()

	for _, cl := range clusters {
		slotsPerCourier := (len(cl.Indices) + len(couriers) - 1) / len(couriers)
		if slotsPerCourier > maxSlotsPerCourier {
			slotsPerCourier = maxSlotsPerCourier
		}

		type pair struct {
			courierIdx int
			orderIdx   int
			cost       float64
		}
		// The slot dimension collapses to a per-courier claim budget:
		// pricing is identical across a courier's slots.
		var pairs []pair
		for ci, c := range couriers {
			for _, oi := range cl.Indices {
				o := deliverable[oi]
				pairs = append(pairs, pair{
					courierIdx: ci,
					orderIdx:   oi,
					cost:       haversine(c.Depot(), o.Location()) + priorityPenalty(o.Priority())*coeff,
				})
			}
		}

		sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].cost < pairs[b].cost })

		slotsUsed := make([]int, len(couriers))
		for _, p := range pairs {
			if claimed[p.orderIdx] || slotsUsed[p.courierIdx] >= slotsPerCourier {
				continue
			}

			c := couriers[p.courierIdx]
			o := deliverable[p.orderIdx]
			if !feas.canTake(c, loads[c.ID()], o) {
				continue
			}

			claimed[p.orderIdx] = true
			slotsUsed[p.courierIdx]++
			loads[c.ID()] += o.WeightKg()
			res.Assignments[c.ID()] = append(res.Assignments[c.ID()], o)
			res.TotalCost += p.cost
		}
	}

	for i, o := range deliverable {
		if !claimed[i] {
			res.Unassigned = append(res.Unassigned, o)
		}
	}

	res.noteRejections(feas)
	return res, nil
}
