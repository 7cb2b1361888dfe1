package tsp

// improvementThreshold filters float noise: a move must beat the incumbent
// by more than this to be accepted.
const improvementThreshold = 1e-6

// RouteDistance sums the distances along consecutive route positions.
func RouteDistance(route []int, dist [][]float64) float64 {
	total := 0.0
	for p := 0; p+1 < len(route); p++ {
		total += dist[route[p]][route[p+1]]
	}
	return total
}

// NearestNeighbor builds the seed tour: starting from index 0 it repeatedly
// appends the unvisited index closest to the current tail. Distance ties
// keep the lowest index.
func NearestNeighbor(dist [][]float64) []int {
	n := len(dist)
	route := make([]int, 0, n)
	route = append(route, 0)

	visited := make([]bool, n)
	visited[0] = true

	for len(route) < n {
		tail := route[len(route)-1]
		best := -1
		for idx := 1; idx < n; idx++ {
			if visited[idx] {
				continue
			}
			if best < 0 || dist[tail][idx] < dist[tail][best] {
				best = idx
			}
		}
		visited[best] = true
		route = append(route, best)
	}

	return route
}

// TwoOpt improves the route by reversing inner segments until a full pass
// yields no strict improvement. The depot at position 0 never moves.
//
// Reversing positions [i, j) also reverses every edge inside the segment,
// and road matrices are directional, so a move cannot be priced by its two
// boundary edges alone: each candidate is scored over the full route.
func TwoOpt(route []int, dist [][]float64) []int {
	best := append([]int(nil), route...)
	m := len(best)
	if m < 4 {
		return best
	}

	baseline := RouteDistance(best, dist)
	for {
		improved := false
	pass:
		for i := 1; i <= m-3; i++ {
			for j := i + 2; j <= m-2; j++ {
				candidate := append([]int(nil), best...)
				reverseSegment(candidate, i, j)
				if score := RouteDistance(candidate, dist); baseline-score > improvementThreshold {
					best = candidate
					baseline = score
					improved = true
					break pass
				}
			}
		}
		if !improved {
			return best
		}
	}
}

// ThreeOpt improves the route with 3-edge reconnections. The route is split
// as A|B|C|D at (i, j, k) and the seven non-identity reconnections of B and
// C are tried; the first strict improvement is applied and the scan
// restarts. Terminates when a full scan yields none.
func ThreeOpt(route []int, dist [][]float64) []int {
	best := append([]int(nil), route...)
	m := len(best)
	if m < 6 {
		return best
	}

	baseline := RouteDistance(best, dist)
	for {
		improved := false
	scan:
		for i := 1; i <= m-5; i++ {
			for j := i + 2; j <= m-3; j++ {
				for k := j + 2; k <= m-1; k++ {
					for _, candidate := range reconnections(best, i, j, k) {
						score := RouteDistance(candidate, dist)
						if baseline-score > improvementThreshold {
							best = candidate
							baseline = score
							improved = true
							break scan
						}
					}
				}
			}
		}
		if !improved {
			return best
		}
	}
}

// reconnections enumerates the seven non-identity reorderings of the B and
// C segments in A|B|C|D.
func reconnections(route []int, i, j, k int) [][]int {
	a := route[:i]
	b := route[i:j]
	c := route[j:k]
	d := route[k:]

	rb := reversed(b)
	rc := reversed(c)

	return [][]int{
		concat(a, rb, c, d),
		concat(a, b, rc, d),
		concat(a, rb, rc, d),
		concat(a, c, b, d),
		concat(a, c, rb, d),
		concat(a, rc, b, d),
		concat(a, rc, rb, d),
	}
}

func reverseSegment(route []int, i, j int) {
	for lo, hi := i, j-1; lo < hi; lo, hi = lo+1, hi-1 {
		route[lo], route[hi] = route[hi], route[lo]
	}
}

func reversed(segment []int) []int {
	out := make([]int, len(segment))
	for i, v := range segment {
		out[len(segment)-1-i] = v
	}
	return out
}

func concat(segments ...[]int) []int {
	total := 0
	for _, s := range segments {
		total += len(s)
	}
	out := make([]int, 0, total)
	for _, s := range segments {
		out = append(out, s...)
	}
	return out
}
