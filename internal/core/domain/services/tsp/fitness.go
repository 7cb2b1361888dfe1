package tsp

import (
	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/model/station"
)

// Fitness term weights and penalty constants. The fitness is minimized:
// distance dominates, elapsed time keeps tours short, and the penalty terms
// price constraint violations high enough that feasible tours always beat
// infeasible ones.
const (
	fitDistanceWeight = 1.0
	fitTimeWeight     = 0.30
	fitLatenessWeight = 1.20
	fitBatteryWeight  = 1.0
	fitOvertimeWeight = 1.5

	rechargeSoftBase   = 25.0
	rechargeSoftPerMin = 0.5
	batteryHardBase    = 5000.0
	batteryHardPerMin  = 100.0
	overtimeBase       = 2000.0
	overtimePerMin     = 25.0
)

// priorityWeight scales lateness: being late on an urgent order costs four
// times a flexible one.
func priorityWeight(priority int) float64 {
	switch priority {
	case order.PriorityUrgent:
		return 6.0
	case order.PriorityNormal:
		return 3.0
	default:
		return 1.5
	}
}

// WindowLateness returns the lateness penalty for arriving at the given
// time: minutes past the order's window end times the priority weight, zero
// for on-time arrivals or unconstrained orders. The scenario multiplier is
// applied by the evaluator, not here.
func WindowLateness(arrival kernel.TimeOfDay, o *order.Order) float64 {
	w := o.DeliveryWindow()
	if w == nil || !arrival.After(w.End) {
		return 0
	}
	return float64(arrival.Minutes()-w.End.Minutes()) * priorityWeight(o.Priority())
}

// FitnessEvaluator scores tour permutations for the genetic refiner by
// simulating the tour with the matrices: accumulated distance and time,
// virtual battery detours, delivery window lateness, per-order service time
// and workday overtime.
//
// Orders[i] corresponds to matrix index i+1; index 0 is the depot.
type FitnessEvaluator struct {
	Courier  *courier.Courier
	Orders   []*order.Order
	DistKm   [][]float64
	DurMin   [][]float64
	Stations []*station.RechargeStation

	// LatenessCoeff is the scenario multiplier applied to the lateness
	// penalty (1.0 on a normal day).
	LatenessCoeff float64
}

// Fitness returns the minimized score of a route permutation.
func (e *FitnessEvaluator) Fitness(route []int) float64 {
	distance := 0.0
	elapsed := float64(e.Courier.WorkStart().Minutes())
	latenessPen := 0.0
	batteryPen := 0.0

	battery := 0.0
	hasBattery := e.Courier.Battery() != nil
	if hasBattery {
		battery = e.Courier.Battery().Remaining()
	}

	for p := 0; p+1 < len(route); p++ {
		from, to := route[p], route[p+1]
		segDist := e.DistKm[from][to]
		segTime := e.DurMin[from][to]

		if hasBattery && battery < segTime {
			detourDist, detourTime, rechargeTime, hard := e.virtualRecharge(from, battery)
			if hard > 0 {
				batteryPen += hard
			} else {
				batteryPen += rechargeSoftBase + rechargeSoftPerMin*rechargeTime
			}
			distance += detourDist
			elapsed += detourTime + rechargeTime
			battery = e.Courier.Battery().Max()
		}

		distance += segDist
		elapsed += segTime
		if hasBattery {
			battery -= segTime
			if battery < 0 {
				battery = 0
			}
		}

		if to >= 1 {
			o := e.Orders[to-1]
			if w := o.DeliveryWindow(); w != nil {
				if elapsed < float64(w.Start.Minutes()) {
					// Early arrivals wait for the window to open.
					elapsed = float64(w.Start.Minutes())
				}
			}
			arrival, err := kernel.NewTimeOfDay(int(elapsed))
			if err == nil {
				latenessPen += WindowLateness(arrival, o)
			}
			elapsed += float64(o.ServiceMinutes())
		}
	}

	overtimePen := 0.0
	workEnd := float64(e.Courier.WorkEnd().Minutes())
	if elapsed > workEnd {
		overtimePen = overtimeBase + overtimePerMin*(elapsed-workEnd)
	}

	coeff := e.LatenessCoeff
	if coeff <= 0 {
		coeff = 1.0
	}

	totalTime := elapsed - float64(e.Courier.WorkStart().Minutes())
	return fitDistanceWeight*distance +
		fitTimeWeight*totalTime +
		fitLatenessWeight*latenessPen*coeff +
		fitBatteryWeight*batteryPen +
		fitOvertimeWeight*overtimePen
}

// virtualRecharge prices the detour from the given point index to the
// nearest station: haversine distance at the courier's average speed, then
// a full recharge. When even the detour drains the battery past empty the
// hard penalty is returned instead of a recharge.
func (e *FitnessEvaluator) virtualRecharge(from int, battery float64) (detourDist, detourTime, rechargeTime, hard float64) {
	pos := e.pointOf(from)
	nearest := station.Nearest(pos, e.Stations)
	if nearest == nil {
		return 0, 0, 0, batteryHardBase
	}

	detourDist = pos.HaversineTo(nearest.Location())
	detourTime = e.Courier.TravelMinutes(detourDist)

	remaining := battery - detourTime
	if remaining < 0 {
		return detourDist, detourTime, 0, batteryHardBase + batteryHardPerMin*(-remaining)
	}

	max := e.Courier.Battery().Max()
	rechargeTime = (max - remaining) / e.Courier.Battery().RechargeRate()
	return detourDist, detourTime, rechargeTime, 0
}

func (e *FitnessEvaluator) pointOf(idx int) kernel.GeoPoint {
	if idx == 0 {
		return e.Courier.Depot()
	}
	return e.Orders[idx-1].Location()
}
