// Package route holds the realized-route read model produced by an
// optimization run.
//
// Unlike the Order and Courier aggregates these are plain data structures:
// a realized route is the immutable outcome of a simulation, never mutated
// after it is built, so it carries no constructor guard or private fields.
package route

import "optiroute/internal/core/domain/model/kernel"

// RechargeEvent records a detour to a recharge station during a tour.
type RechargeEvent struct {
	// StationID identifies the station the courier detoured to.
	StationID string
	// BeforeStopID is the order whose leg triggered the detour.
	BeforeStopID string
	// DurationMin is the time spent plugged in.
	DurationMin float64
}

// MetaSolution is the diagnostic outcome of one refinement stage (nearest,
// 2opt, 3opt, genetic): its tour, the matrix-estimated distance and the
// oracle's road-level measurement of the same tour.
type MetaSolution struct {
	// Algo names the refinement stage that produced the tour.
	Algo string
	// EstimatedKm is the tour length under the solver's distance matrix.
	EstimatedKm float64
	// OracleKm and OracleMin are the oracle's measurement of the tour.
	OracleKm  float64
	OracleMin float64
	// Cost is OracleKm times the courier's per-kilometre cost.
	Cost float64
	// Geometry is the road polyline, when the oracle provides one.
	Geometry []kernel.GeoPoint
	// OrderedIDs lists the order IDs in visit order.
	OrderedIDs []string
}

// RealizedRoute is the simulated outcome of one courier's tour: which orders
// were delivered before the workday ran out, which were pushed to the next
// run, and the operational totals for the day.
type RealizedRoute struct {
	// CourierID identifies the courier the tour belongs to.
	CourierID string

	// Delivered lists order IDs completed within the workday, in visit order.
	Delivered []string

	// Deferred lists order IDs that did not fit the workday, in plan order.
	Deferred []string

	// DistanceKm is the total distance driven, recharge detours included.
	DistanceKm float64

	// DurationMin is the total tour time: travel, service and recharge.
	DurationMin float64

	// Cost is DistanceKm multiplied by the courier's per-kilometre cost.
	Cost float64

	// GPS is the ordered list of points visited, depot and stations included.
	GPS []kernel.GeoPoint

	// Recharges lists the battery detours taken during the tour.
	Recharges []RechargeEvent

	// EndTime is the wall-clock time the tour finished.
	EndTime kernel.TimeOfDay

	// Variants holds alternative road-level paths for the tour's legs.
	Variants []MetaSolution
}

// DeliveredCount returns the number of completed stops.
func (r *RealizedRoute) DeliveredCount() int {
	return len(r.Delivered)
}

// DeferredCount returns the number of stops pushed to the next run.
func (r *RealizedRoute) DeferredCount() int {
	return len(r.Deferred)
}
