package commands

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/order"
	"optiroute/internal/core/domain/model/route"
	"optiroute/internal/core/domain/model/station"
	"optiroute/internal/core/domain/services/assign"
	"optiroute/internal/core/domain/services/executor"
	"optiroute/internal/core/domain/services/tsp"
	"optiroute/internal/core/domain/services/validation"
	"optiroute/internal/core/ports"
)

// ErrInsufficientData is returned when there are no pending orders or no
// available couriers to optimize.
var ErrInsufficientData = errors.New("no pending orders or no available couriers")

// OptimizationResult is the complete outcome of one run.
type OptimizationResult struct {
	RunID    string
	Solver   string
	Scenario string

	// Assignments maps courier ID to the assigned order IDs in plan order.
	Assignments map[string][]string
	// Unassigned lists the order IDs no courier could take.
	Unassigned []string
	// RejectionReasons maps an unassigned order ID to the validator's
	// reason (capacity overflow, off-shift courier, weather zone), when
	// one was recorded.
	RejectionReasons map[string]string
	// Routes holds one realized route per courier with a non-empty tour,
	// in courier load order. Each route carries its meta-solutions.
	Routes []*route.RealizedRoute

	TotalDistanceKm  float64
	TotalDurationMin float64
	TotalCost        float64
	ActiveTours      int
	DeliveredCount   int
	DeferredCount    int
	ElapsedMs        int64

	// Run statistics.
	OrdersAssigned  int
	SolverCost      float64
	MeanDistanceKm  float64
	MeanDurationMin float64
	MeanCostPerTour float64
}

// ResultSink receives the finished result for diagnostic readers (the
// last-optimization cache). Implementations must be safe for concurrent
// reads against a single writer.
type ResultSink interface {
	Set(result *OptimizationResult)
}

// OptimizeConfig tunes one handler's optimization runs.
type OptimizeConfig struct {
	// Seed initializes the per-run PRNG (clustering, GA); same seed, same
	// snapshot, same result.
	Seed int64
	// SolverDeadline bounds the branch-and-bound search.
	SolverDeadline time.Duration
	// ZoneRadiusKm is the zone-seeded solver's zone radius.
	ZoneRadiusKm float64
	// KMeansIterations bounds clustering rounds.
	KMeansIterations int
	// Genetic tunes the tour refiner.
	Genetic tsp.GeneticConfig
	// Weather excludes dangerous locations (nil means clear skies).
	Weather validation.WeatherValidator
	// AllowOracleFallback permits haversine leg estimates during execution.
	AllowOracleFallback bool
	// DisableTimeoutFallback surfaces ErrSolverTimeout instead of retrying
	// with the multi-criteria greedy solver.
	DisableTimeoutFallback bool
}

// OptimizeRoutesCommandHandler orchestrates one optimization run: load,
// snapshot, assign, refine and execute per courier, write back, publish.
//
// Per-courier failures during refinement or execution do not abort the run:
// that courier's orders return to Unassigned and the remaining routes are
// still emitted.
type OptimizeRoutesCommandHandler struct {
	uowFactory UoWFactory
	oracle     ports.RouteOracle
	stations   []*station.RechargeStation
	publisher  ports.EventPublisher
	sink       ResultSink
	cfg        OptimizeConfig
	logger     *slog.Logger
}

// NewOptimizeRoutesCommandHandler creates the orchestrating handler.
// publisher and sink may be nil; publishing and caching are then skipped.
func NewOptimizeRoutesCommandHandler(
	uowFactory UoWFactory,
	oracle ports.RouteOracle,
	stations []*station.RechargeStation,
	publisher ports.EventPublisher,
	sink ResultSink,
	cfg OptimizeConfig,
	logger *slog.Logger,
) OptimizeRoutesCommandHandler {
	return OptimizeRoutesCommandHandler{
		uowFactory: uowFactory,
		oracle:     oracle,
		stations:   stations,
		publisher:  publisher,
		sink:       sink,
		cfg:        cfg,
		logger:     logger.With("component", "optimize_routes"),
	}
}

// Handle runs the full pipeline and returns the aggregated result. It fails
// with ErrInsufficientData when there is nothing to optimize; solver and
// oracle errors propagate after the documented fallbacks.
func (h OptimizeRoutesCommandHandler) Handle(ctx context.Context, command OptimizeRoutesCommand) (*OptimizationResult, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	storedOrders, err := uow.OrderRepository().GetAllPending(ctx)
	if err != nil {
		return nil, err
	}
	storedCouriers, err := uow.CourierRepository().GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(storedOrders) == 0 || len(storedCouriers) == 0 {
		return nil, ErrInsufficientData
	}

	// Work on snapshots: solver and simulation never touch store-owned
	// aggregates.
	orders := make([]*order.Order, len(storedOrders))
	for i, o := range storedOrders {
		orders[i] = o.Clone()
	}
	couriers := make([]*courier.Courier, len(storedCouriers))
	for i, c := range storedCouriers {
		couriers[i] = c.Clone()
	}

	rng := rand.New(rand.NewSource(h.cfg.Seed)) //nolint:gosec // reproducibility, not crypto
	assignment, err := h.runSolver(command, couriers, orders, rng)
	if err != nil {
		return nil, err
	}

	result := &OptimizationResult{
		RunID:            uuid.NewString(),
		Solver:           command.Solver(),
		Scenario:         command.Scenario().String(),
		Assignments:      make(map[string][]string, len(couriers)),
		RejectionReasons: assignment.Reasons,
	}

	refiner := tsp.NewRefiner(h.oracle, h.stations, h.cfg.Genetic, rng)
	exec := executor.NewExecutor(h.oracle, h.stations, h.cfg.AllowOracleFallback, h.logger)

	unassigned := append([]*order.Order(nil), assignment.Unassigned...)
	deferredByCourier := make(map[string][]string)

	for _, c := range couriers {
		tourOrders := assignment.Assignments[c.ID()]
		if len(tourOrders) == 0 {
			continue
		}

		realized, variants, err := h.realizeTour(ctx, refiner, exec, c, tourOrders, command.Scenario())
		if err != nil {
			// Partial progress: this courier's orders return to the
			// unassigned pool, other couriers still deliver.
			h.logger.ErrorContext(ctx, "tour realization failed, returning orders to unassigned",
				"courier_id", c.ID(),
				"orders", len(tourOrders),
				"error", err)
			unassigned = append(unassigned, tourOrders...)
			continue
		}
		realized.Variants = variants

		ids := make([]string, 0, len(tourOrders))
		for _, o := range tourOrders {
			ids = append(ids, o.ID())
		}
		result.Assignments[c.ID()] = ids
		result.Routes = append(result.Routes, realized)
		result.TotalDistanceKm += realized.DistanceKm
		result.TotalDurationMin += realized.DurationMin
		result.TotalCost += realized.Cost
		result.ActiveTours++
		result.DeliveredCount += realized.DeliveredCount()
		result.DeferredCount += realized.DeferredCount()
		deferredByCourier[c.ID()] = realized.Deferred
	}

	for _, o := range unassigned {
		result.Unassigned = append(result.Unassigned, o.ID())
	}

	for _, ids := range result.Assignments {
		result.OrdersAssigned += len(ids)
	}
	result.SolverCost = assignment.TotalCost
	if result.ActiveTours > 0 {
		tours := float64(result.ActiveTours)
		result.MeanDistanceKm = result.TotalDistanceKm / tours
		result.MeanDurationMin = result.TotalDurationMin / tours
		result.MeanCostPerTour = result.TotalCost / tours
	}

	if err := h.writeBack(ctx, uow, storedOrders, result, deferredByCourier); err != nil {
		return nil, err
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	result.ElapsedMs = time.Since(started).Milliseconds()

	if h.sink != nil {
		h.sink.Set(result)
	}
	h.publish(ctx, result, len(couriers), len(orders))

	h.logger.InfoContext(ctx, "optimization run completed",
		"run_id", result.RunID,
		"solver", result.Solver,
		"scenario", result.Scenario,
		"tours", result.ActiveTours,
		"delivered", result.DeliveredCount,
		"deferred", result.DeferredCount,
		"unassigned", len(result.Unassigned),
		"total_km", result.TotalDistanceKm,
		"elapsed_ms", result.ElapsedMs)

	return result, nil
}

// runSolver builds the configured solver and assigns, retrying with the
// multi-criteria greedy solver when branch-and-bound times out.
func (h OptimizeRoutesCommandHandler) runSolver(
	command OptimizeRoutesCommand,
	couriers []*courier.Courier,
	orders []*order.Order,
	rng *rand.Rand,
) (*assign.Result, error) {
	cfg := assign.Config{
		Deadline:         h.cfg.SolverDeadline,
		ZoneRadiusKm:     h.cfg.ZoneRadiusKm,
		KMeansIterations: h.cfg.KMeansIterations,
		Weather:          h.cfg.Weather,
		Rand:             rng,
	}

	solver, err := assign.New(command.Solver(), cfg)
	if err != nil {
		return nil, err
	}

	result, err := solver.Assign(couriers, orders, command.Scenario())
	if errors.Is(err, assign.ErrSolverTimeout) && !h.cfg.DisableTimeoutFallback {
		h.logger.Warn("solver deadline exceeded, falling back to multi-criteria greedy",
			"solver", command.Solver())
		fallback, ferr := assign.New(assign.SolverMultiCriteria, cfg)
		if ferr != nil {
			return nil, ferr
		}
		return fallback.Assign(couriers, orders, command.Scenario())
	}
	return result, err
}

// realizeTour refines and executes one courier's tour.
func (h OptimizeRoutesCommandHandler) realizeTour(
	ctx context.Context,
	refiner *tsp.Refiner,
	exec *executor.Executor,
	c *courier.Courier,
	tourOrders []*order.Order,
	scenario assign.Scenario,
) (*route.RealizedRoute, []route.MetaSolution, error) {
	plan, err := refiner.Refine(ctx, c, tourOrders, scenario.Coefficient())
	if err != nil {
		return nil, nil, err
	}

	realized, err := exec.Execute(ctx, c, tourOrders, plan.Final)
	if err != nil {
		return nil, nil, err
	}

	return realized, exec.BuildMetaSolutions(ctx, c, tourOrders, plan), nil
}

// writeBack persists the run outcome on the store-owned aggregates:
// delivered orders become assigned to their courier, deferred orders return
// to the pending pool as deferred.
func (h OptimizeRoutesCommandHandler) writeBack(
	ctx context.Context,
	uow UoW,
	storedOrders []*order.Order,
	result *OptimizationResult,
	deferredByCourier map[string][]string,
) error {
	byID := make(map[string]*order.Order, len(storedOrders))
	for _, o := range storedOrders {
		byID[o.ID()] = o
	}

	repo := uow.OrderRepository()
	for courierID, ids := range result.Assignments {
		deferred := make(map[string]bool, len(deferredByCourier[courierID]))
		for _, id := range deferredByCourier[courierID] {
			deferred[id] = true
		}

		for _, id := range ids {
			o, ok := byID[id]
			if !ok {
				continue
			}
			if err := o.Assign(courierID); err != nil {
				return err
			}
			if deferred[id] {
				if err := o.Defer(); err != nil {
					return err
				}
			}
			if err := repo.Update(ctx, o); err != nil {
				return err
			}
		}
	}
	return nil
}

// publish emits the completion event. Publishing is best-effort: a broker
// failure is logged and never fails the run.
func (h OptimizeRoutesCommandHandler) publish(ctx context.Context, result *OptimizationResult, courierCount, orderCount int) {
	if h.publisher == nil {
		return
	}

	event := ports.OptimizationCompletedEvent{
		RunID:          result.RunID,
		Solver:         result.Solver,
		Scenario:       result.Scenario,
		CourierCount:   courierCount,
		OrderCount:     orderCount,
		DeliveredCount: result.DeliveredCount,
		DeferredCount:  result.DeferredCount,
		TotalKm:        result.TotalDistanceKm,
		TotalCost:      result.TotalCost,
		ElapsedMs:      result.ElapsedMs,
	}
	if err := h.publisher.PublishOptimizationCompleted(ctx, event); err != nil {
		h.logger.ErrorContext(ctx, "failed to publish optimization.completed",
			"run_id", result.RunID,
			"error", err)
	}
}
