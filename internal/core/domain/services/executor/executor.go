// Package executor walks a refined tour with real oracle measurements,
// simulating battery detours and truncating at workday end, and emits the
// realized route for one courier.
package executor

import (
	"context"
	"errors"
	"log/slog"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/model/route"
	"optiroute/internal/core/domain/model/station"
	"optiroute/internal/core/domain/services/tsp"
	"optiroute/internal/core/ports"
)

// Executor realizes tours. Unlike the genetic fitness, which estimates legs
// from the pairwise matrix, the executor re-measures every leg through the
// oracle so the realized totals reflect actual road segments, recharge
// detours included.
type Executor struct {
	oracle   ports.RouteOracle
	stations []*station.RechargeStation

	// allowFallback permits haversine/speed leg estimates when the oracle
	// fails; otherwise oracle errors surface to the caller.
	allowFallback bool

	logger *slog.Logger
}

// NewExecutor creates an executor backed by the given oracle and station
// catalog.
func NewExecutor(oracle ports.RouteOracle, stations []*station.RechargeStation, allowFallback bool, logger *slog.Logger) *Executor {
	return &Executor{
		oracle:        oracle,
		stations:      stations,
		allowFallback: allowFallback,
		logger:        logger.With("component", "executor"),
	}
}

// Execute walks the tour permutation over [depot, orders...] and realizes
// it for the courier:
//
//   - each leg is measured through the oracle (haversine/speed fallback only
//     when configured)
//   - when the battery cannot cover the next leg, the courier detours to
//     the nearest station and recharges fully before continuing
//   - when a leg would end past the workday, that stop and every remaining
//     stop are deferred and the walk stops
//   - service time is spent at every delivered stop
//
// The courier must be a run-local clone; its battery state is consumed by
// the simulation.
func (e *Executor) Execute(ctx context.Context, c *courier.Courier, orders []*order.Order, tour []int) (*route.RealizedRoute, error) {
	realized := &route.RealizedRoute{CourierID: c.ID()}

	prev := c.Depot()
	realized.GPS = append(realized.GPS, prev)

	currentTime := float64(c.WorkStart().Minutes())
	battery := 0.0
	hasBattery := c.Battery() != nil
	if hasBattery {
		battery = c.Battery().Remaining()
	}

	for pos := 1; pos < len(tour); pos++ {
		idx := tour[pos]
		target := pointOf(c, orders, idx)

		seg, err := e.leg(ctx, c, prev, target)
		if err != nil {
			return nil, err
		}

		if hasBattery && seg.DurationMin > battery {
			nearest := station.Nearest(prev, e.stations)
			if nearest != nil {
				detour, err := e.leg(ctx, c, prev, nearest.Location())
				if err != nil {
					return nil, err
				}

				realized.DistanceKm += detour.DistanceKm
				realized.DurationMin += detour.DurationMin
				currentTime += detour.DurationMin
				battery -= detour.DurationMin

				rechargeTime := (c.Battery().Max() - battery) / c.Battery().RechargeRate()
				realized.DurationMin += rechargeTime
				currentTime += rechargeTime
				battery = c.Battery().Max()

				realized.GPS = append(realized.GPS, nearest.Location())
				realized.Recharges = append(realized.Recharges, route.RechargeEvent{
					StationID:    nearest.ID(),
					BeforeStopID: stopID(orders, idx),
					DurationMin:  rechargeTime,
				})

				e.logger.InfoContext(ctx, "recharge detour inserted",
					"courier_id", c.ID(),
					"station_id", nearest.ID(),
					"recharge_min", rechargeTime)

				prev = nearest.Location()
				seg, err = e.leg(ctx, c, prev, target)
				if err != nil {
					return nil, err
				}
			}
		}

		if currentTime+seg.DurationMin > float64(c.WorkEnd().Minutes()) {
			for _, rest := range tour[pos:] {
				if id := stopID(orders, rest); id != "" {
					realized.Deferred = append(realized.Deferred, id)
				}
			}
			break
		}

		realized.DistanceKm += seg.DistanceKm
		realized.DurationMin += seg.DurationMin
		currentTime += seg.DurationMin
		if hasBattery {
			battery -= seg.DurationMin
			if battery < 0 {
				battery = 0
			}
		}

		realized.GPS = append(realized.GPS, target)
		if idx >= 1 {
			o := orders[idx-1]
			realized.Delivered = append(realized.Delivered, o.ID())
			currentTime += float64(o.ServiceMinutes())
			realized.DurationMin += float64(o.ServiceMinutes())
		}
		prev = target
	}

	realized.Cost = realized.DistanceKm * c.CostPerKm()

	endTime, err := kernel.NewTimeOfDay(int(currentTime))
	if err != nil {
		return nil, err
	}
	realized.EndTime = endTime

	return realized, nil
}

// BuildMetaSolutions measures each refinement stage's tour through the
// oracle's full-route endpoint for diagnostic comparison. Failures are
// logged and skipped; the block is informational only.
func (e *Executor) BuildMetaSolutions(ctx context.Context, c *courier.Courier, orders []*order.Order, plan *tsp.Plan) []route.MetaSolution {
	var solutions []route.MetaSolution

	for _, stage := range plan.Stages {
		coords := make([]kernel.GeoPoint, len(stage.Route))
		ids := make([]string, 0, len(stage.Route))
		for i, idx := range stage.Route {
			coords[i] = plan.Points[idx]
			if id := stopID(orders, idx); id != "" {
				ids = append(ids, id)
			}
		}

		geometry, err := e.oracle.RouteFull(ctx, coords)
		if err != nil {
			e.logger.WarnContext(ctx, "meta-solution measurement failed",
				"courier_id", c.ID(),
				"algo", stage.Algo,
				"error", err)
			continue
		}

		solutions = append(solutions, route.MetaSolution{
			Algo:        stage.Algo,
			EstimatedKm: stage.DistanceKm,
			OracleKm:    geometry.DistanceKm,
			OracleMin:   geometry.DurationMin,
			Cost:        geometry.DistanceKm * c.CostPerKm(),
			Geometry:    geometry.Geometry,
			OrderedIDs:  ids,
		})
	}

	return solutions
}

// leg measures one segment through the oracle, falling back to a
// haversine/speed estimate when configured.
func (e *Executor) leg(ctx context.Context, c *courier.Courier, from, to kernel.GeoPoint) (ports.Leg, error) {
	seg, err := e.oracle.Route(ctx, from, to)
	if err == nil {
		return seg, nil
	}

	var oracleErr *ports.OracleError
	if e.allowFallback && errors.As(err, &oracleErr) {
		km := from.HaversineTo(to)
		e.logger.WarnContext(ctx, "oracle unavailable, using haversine estimate",
			"courier_id", c.ID(),
			"error", err)
		return ports.Leg{DistanceKm: km, DurationMin: c.TravelMinutes(km)}, nil
	}

	return ports.Leg{}, err
}

func pointOf(c *courier.Courier, orders []*order.Order, idx int) kernel.GeoPoint {
	if idx == 0 {
		return c.Depot()
	}
	return orders[idx-1].Location()
}

func stopID(orders []*order.Order, idx int) string {
	if idx >= 1 && idx <= len(orders) {
		return orders[idx-1].ID()
	}
	return ""
}
