// Package assign implements the interchangeable assignment solvers that
// partition a batch of pending orders across available couriers.
//
// Four strategies share one Solver contract:
//   - branch-and-bound: exact matching on a score-derived cost matrix,
//     bounded by a deadline
//   - clustered greedy: k-means zones, then cheapest-pair claiming over
//     virtual courier slots
//   - multi-criteria greedy: priority/weight ordered insertion against a
//     composite cost
//   - zone-seeded greedy: k-means seeds bound by a small branch-and-bound,
//     then iterative in-zone picking
//
// They trade off optimality, throughput and fairness differently; the
// orchestrator selects one by configuration and falls back from
// branch-and-bound to multi-criteria greedy on solver timeout.
//
// Every strategy checks pair feasibility through the validation package
// (schedule, capacity, weather); the reasons refused orders were turned
// away with are surfaced on Result.Reasons.
package assign
