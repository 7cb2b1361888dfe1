// Package cluster implements geographic k-means clustering over delivery
// points. Solvers use it to split a city-wide order set into compact zones
// before assignment.
package cluster

import (
	"math"
	"math/rand"

	"optiroute/internal/core/domain/model/kernel"
)

// DefaultMaxIterations bounds Lloyd's algorithm when the caller has no
// preference. Delivery point sets are small; ten rounds converge in
// practice.
const DefaultMaxIterations = 10

// Cluster is one k-means cell: its centroid and the indices of the input
// points assigned to it. Indices refer to the points slice given to KMeans.
type Cluster struct {
	Centroid kernel.GeoPoint
	Indices  []int
}

// KMeans partitions points into at most k clusters using Lloyd's algorithm
// with the haversine metric.
//
// Behavior:
//   - k is clamped to [1, len(points)]; an empty input yields nil
//   - initial centroids are k distinct points sampled with rng
//   - each point joins its nearest centroid; ties keep the lowest
//     cluster index
//   - a cluster left empty after an assignment round is reseeded with a
//     random input point
//   - iteration stops after maxIters rounds (DefaultMaxIterations when
//     maxIters <= 0) or as soon as assignments stop changing
//   - cells still empty at the end are dropped, so every returned cluster
//     holds at least one point and the result may have fewer than k cells
//
// The rng makes runs reproducible: the same seed, points and k always
// produce the same clustering.
func KMeans(points []kernel.GeoPoint, k int, maxIters int, rng *rand.Rand) []Cluster {
	if len(points) == 0 {
		return nil
	}
	if k < 1 {
		k = 1
	}
	if k > len(points) {
		k = len(points)
	}
	if maxIters <= 0 {
		maxIters = DefaultMaxIterations
	}

	centroids := make([]kernel.GeoPoint, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		centroids[i] = points[idx]
	}

	assignment := make([]int, len(points))
	for iter := 0; iter < maxIters; iter++ {
		changed := false
		for p, point := range points {
			best := 0
			bestKm := math.Inf(1)
			for c, centroid := range centroids {
				km := point.HaversineTo(centroid)
				if km < bestKm {
					best = c
					bestKm = km
				}
			}
			if assignment[p] != best {
				assignment[p] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sumLat := make([]float64, k)
		sumLon := make([]float64, k)
		for p, c := range assignment {
			counts[c]++
			sumLat[c] += points[p].Lat()
			sumLon[c] += points[p].Lon()
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				centroids[c] = points[rng.Intn(len(points))]
				continue
			}
			centroid, err := kernel.NewGeoPoint(sumLat[c]/float64(counts[c]), sumLon[c]/float64(counts[c]))
			if err != nil {
				continue
			}
			centroids[c] = centroid
		}
	}

	members := make([][]int, k)
	for p, c := range assignment {
		members[c] = append(members[c], p)
	}

	// Duplicate points can starve a reseeded centroid, leaving its cell
	// empty through the last round; such cells carry no work for callers.
	clusters := make([]Cluster, 0, k)
	for c := 0; c < k; c++ {
		if len(members[c]) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{Centroid: centroids[c], Indices: members[c]})
	}

	return clusters
}
