package assign

import (
	"time"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/services/cluster"
)

// Weights of the zone pick cost.
const (
	zsDistanceWeight = 0.7
	zsPriorityWeight = 0.3
)

// ZoneSeeded combines clustering with an exact seed binding: k-means with
// one cluster per courier elects seed orders, a small branch-and-bound binds
// each courier to a seed, and the seed's surroundings become that courier's
// zone. Couriers then grow their tour greedily inside their zone, advancing
// their position with every pick, which yields geographically coherent
// tours without a full exact search.
type ZoneSeeded struct {
	cfg Config
}

// Assign builds zones around branch-and-bound-elected seed orders and lets
// each courier iteratively pick the cheapest visible order. Orders outside
// every zone are visible to the whole fleet.
func (s *ZoneSeeded) Assign(couriers []*courier.Courier, orders []*order.Order, scenario Scenario) (*Result, error) {
	feas := newFeasibility()
	deliverable, rejected := splitByWeather(orders, s.cfg.Weather, feas)

	res := emptyResult(couriers)
	res.Unassigned = append(res.Unassigned, rejected...)
	if len(deliverable) == 0 || len(couriers) == 0 {
		res.Unassigned = append(res.Unassigned, deliverable...)
		res.noteRejections(feas)
		return res, nil
	}

	seeds := s.electSeeds(deliverable, len(couriers))

	// Bind couriers to seeds with the exact matcher. The instance is tiny
	// (at most one seed per courier) so the deadline is never a concern in
	// practice, but it still applies.
	seedOwner, err := s.bindSeeds(couriers, seeds, deliverable, feas)
	if err != nil {
		return nil, err
	}

	// zoneOf[i] is the zone (courier index) order i belongs to, or -1 when
	// the order sits outside every zone and stays visible to all couriers.
	zoneOf := make([]int, len(deliverable))
	for i, o := range deliverable {
		zoneOf[i] = s.nearestZone(o.Location(), couriers, seedOwner, deliverable)
	}

	claimed := make([]bool, len(deliverable))
	loads := make([]float64, len(couriers))
	positions := make([]kernel.GeoPoint, len(couriers))
	for ci, c := range couriers {
		positions[ci] = c.Depot()
	}

	// Seeds are each courier's first stop.
	for ci, seedIdx := range seedOwner {
		if seedIdx < 0 {
			continue
		}
		o := deliverable[seedIdx]
		c := couriers[ci]
		if claimed[seedIdx] || !feas.canTake(c, loads[ci], o) {
			continue
		}
		claimed[seedIdx] = true
		loads[ci] += o.WeightKg()
		positions[ci] = o.Location()
		res.Assignments[c.ID()] = append(res.Assignments[c.ID()], o)
		res.TotalCost += zsDistanceWeight*haversine(c.Depot(), o.Location()) + zsPriorityWeight*float64(o.Priority())
	}

	// Round-robin picking until a full round places nothing.
	for {
		picked := false
		for ci, c := range couriers {
			bestIdx := -1
			bestCost := 0.0
			for oi, o := range deliverable {
				if claimed[oi] {
					continue
				}
				if zoneOf[oi] >= 0 && zoneOf[oi] != ci {
					continue
				}
				if !feas.canTake(c, loads[ci], o) {
					continue
				}

				cost := zsDistanceWeight*haversine(positions[ci], o.Location()) + zsPriorityWeight*float64(o.Priority())
				if bestIdx < 0 || cost < bestCost {
					bestIdx = oi
					bestCost = cost
				}
			}

			if bestIdx < 0 {
				continue
			}

			o := deliverable[bestIdx]
			claimed[bestIdx] = true
			loads[ci] += o.WeightKg()
			positions[ci] = o.Location()
			res.Assignments[c.ID()] = append(res.Assignments[c.ID()], o)
			res.TotalCost += bestCost
			picked = true
		}
		if !picked {
			break
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

// electSeeds clusters the orders into one cell per courier and returns, per
// cluster, the index of the order closest to the centroid.
func (s *ZoneSeeded) electSeeds(deliverable []*order.Order, k int) []int {
	points := make([]kernel.GeoPoint, len(deliverable))
	for i, o := range deliverable {
		points[i] = o.Location()
	}

	clusters := cluster.KMeans(points, k, s.cfg.KMeansIterations, s.cfg.Rand)

	var seeds []int
	for _, cl := range clusters {
		best := -1
		bestKm := 0.0
		for _, idx := range cl.Indices {
			km := cl.Centroid.HaversineTo(points[idx])
			if best < 0 || km < bestKm {
				best = idx
				bestKm = km
			}
		}
		if best >= 0 {
			seeds = append(seeds, best)
		}
	}
	return seeds
}

// bindSeeds runs the exact matcher on the (seed, courier) score matrix and
// returns, per courier, the bound seed's order index (-1 when unbound).
func (s *ZoneSeeded) bindSeeds(couriers []*courier.Courier, seeds []int, deliverable []*order.Order, feas *feasibility) ([]int, error) {
	owner := make([]int, len(couriers))
	for i := range owner {
		owner[i] = -1
	}
	if len(seeds) == 0 {
		return owner, nil
	}

	realCols := len(couriers)
	cols := len(seeds)
	if realCols > cols {
		cols = realCols
	}
	cols += 3

	cost := make([][]float64, len(seeds))
	for i, seedIdx := range seeds {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			switch {
			case j >= realCols:
				row[j] = bbDummyCost
			default:
				if score := feas.score(couriers[j], deliverable[seedIdx]); score > 0 {
					row[j] = 1 - score
				} else {
					row[j] = bbBlockedCost
				}
			}
		}
		cost[i] = row
	}

	picks, _, err := newMatrixSearch(cost, time.Now().Add(s.cfg.Deadline)).run()
	if err != nil {
		return nil, err
	}

	for i, j := range picks {
		if j < realCols && cost[i][j] < bbBlockedCost {
			owner[j] = seeds[i]
		}
	}
	return owner, nil
}

// nearestZone returns the index of the courier whose seed zone contains p,
// or -1 when p lies outside every zone.
func (s *ZoneSeeded) nearestZone(p kernel.GeoPoint, couriers []*courier.Courier, seedOwner []int, deliverable []*order.Order) int {
	best := -1
	bestKm := 0.0
	for ci := range couriers {
		seedIdx := seedOwner[ci]
		if seedIdx < 0 {
			continue
		}
		km := p.HaversineTo(deliverable[seedIdx].Location())
		if km <= s.cfg.ZoneRadiusKm && (best < 0 || km < bestKm) {
			best = ci
			bestKm = km
		}
	}
	return best
}
