// Package tsp implements the tour refinement pipeline applied to each
// courier's order list after assignment: a nearest-neighbor seed, 2-opt and
// 3-opt local search, and a constraint-aware genetic refiner whose fitness
// simulates battery, delivery windows and workday overtime.
//
// Routes are index permutations into the point sequence
// [depot, order_1, ..., order_n] with the depot fixed at position 0. Every
// stage's output is kept as a diagnostic meta-solution; the genetic result
// is the canonical tour.
package tsp
