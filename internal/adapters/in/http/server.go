// Package http exposes the optimization service over a REST API.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"optiroute/internal/core/application/usecases/commands"
	"optiroute/internal/core/application/usecases/queries"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/route"
	"optiroute/internal/pkg/errs"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	optimizeHandler commands.OptimizeRoutesCommandHandler

	getAvailableCouriersHandler queries.GetAvailableCouriersQueryHandler
	getPendingOrdersHandler     queries.GetPendingOrdersQueryHandler
	getLastOptimizationHandler  queries.GetLastOptimizationQueryHandler

	defaultSolver   string
	defaultScenario string
}

// NewServer creates an HTTP server with the required command and query
// handlers. defaultSolver and defaultScenario apply when an optimize request
// omits them.
func NewServer(
	optimizeHandler commands.OptimizeRoutesCommandHandler,
	getAvailableCouriersHandler queries.GetAvailableCouriersQueryHandler,
	getPendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	getLastOptimizationHandler queries.GetLastOptimizationQueryHandler,
	defaultSolver string,
	defaultScenario string,
) *Server {
	return &Server{
		optimizeHandler:             optimizeHandler,
		getAvailableCouriersHandler: getAvailableCouriersHandler,
		getPendingOrdersHandler:     getPendingOrdersHandler,
		getLastOptimizationHandler:  getLastOptimizationHandler,
		defaultSolver:               defaultSolver,
		defaultScenario:             defaultScenario,
	}
}

// RegisterRoutes binds the API routes on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/optimize", s.Optimize)
	api.GET("/couriers", s.GetCouriers)
	api.GET("/orders/pending", s.GetPendingOrders)
	api.GET("/optimizations/last", s.GetLastOptimization)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// Optimize handles POST /api/v1/optimize - runs one optimization pass.
func (s *Server) Optimize(ctx echo.Context) error {
	var req OptimizeRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Solver == "" {
		req.Solver = s.defaultSolver
	}
	if req.Scenario == "" {
		req.Scenario = s.defaultScenario
	}

	cmd, err := commands.NewOptimizeRoutesCommand(req.Solver, req.Scenario)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid optimization request: " + err.Error(),
		})
	}

	result, err := s.optimizeHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInsufficientData):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "No pending orders or no available couriers",
			})
		case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Optimization failed",
			})
		}
	}

	return ctx.JSON(http.StatusOK, toOptimizationResponse(result))
}

// GetCouriers handles GET /api/v1/couriers - retrieves the available fleet.
func (s *Server) GetCouriers(ctx echo.Context) error {
	query := queries.NewGetAvailableCouriersQuery()

	couriers, err := s.getAvailableCouriersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve couriers",
		})
	}

	response := make([]Courier, len(couriers))
	for i, c := range couriers {
		response[i] = Courier{
			ID:                  c.ID,
			Name:                c.Name,
			Depot:               Point{Lat: c.Depot.Lat(), Lon: c.Depot.Lon()},
			CapacityKg:          c.CapacityKg,
			SpeedKmh:            c.SpeedKmh,
			CostPerKm:           c.CostPerKm,
			WorkStart:           c.WorkStart.String(),
			WorkEnd:             c.WorkEnd.String(),
			BatteryRemainingMin: c.BatteryRemainingMin,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetPendingOrders handles GET /api/v1/orders/pending - retrieves the
// optimization backlog.
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	query := queries.NewGetPendingOrdersQuery()

	orders, err := s.getPendingOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve pending orders",
		})
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = Order{
			ID:       o.ID,
			Location: Point{Lat: o.Location.Lat(), Lon: o.Location.Lon()},
			WeightKg: o.WeightKg,
			Priority: o.Priority,
			Status:   o.Status,
			Address:  o.Address,
		}
		if o.WindowStart != nil && o.WindowEnd != nil {
			start := o.WindowStart.String()
			end := o.WindowEnd.String()
			response[i].WindowStart = &start
			response[i].WindowEnd = &end
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetLastOptimization handles GET /api/v1/optimizations/last - returns the
// diagnostics of the most recent run.
func (s *Server) GetLastOptimization(ctx echo.Context) error {
	query := queries.NewGetLastOptimizationQuery()

	result, err := s.getLastOptimizationHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, queries.ErrNoOptimizationYet) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "No optimization has completed yet",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve last optimization",
		})
	}

	return ctx.JSON(http.StatusOK, toOptimizationResponse(result))
}

func toOptimizationResponse(result *commands.OptimizationResult) OptimizationResponse {
	response := OptimizationResponse{
		RunID:            result.RunID,
		Solver:           result.Solver,
		Scenario:         result.Scenario,
		Assignments:      result.Assignments,
		Unassigned:       result.Unassigned,
		RejectionReasons: result.RejectionReasons,
		Routes:           make([]RealizedRoute, len(result.Routes)),
		TotalDistanceKm:  result.TotalDistanceKm,
		TotalDurationMin: result.TotalDurationMin,
		TotalCost:        result.TotalCost,
		ActiveTours:      result.ActiveTours,
		DeliveredCount:   result.DeliveredCount,
		DeferredCount:    result.DeferredCount,
		OrdersAssigned:   result.OrdersAssigned,
		SolverCost:       result.SolverCost,
		MeanDistanceKm:   result.MeanDistanceKm,
		MeanDurationMin:  result.MeanDurationMin,
		MeanCostPerTour:  result.MeanCostPerTour,
		ElapsedMs:        result.ElapsedMs,
	}

	for i, r := range result.Routes {
		response.Routes[i] = RealizedRoute{
			CourierID:   r.CourierID,
			Delivered:   r.Delivered,
			Deferred:    r.Deferred,
			DistanceKm:  r.DistanceKm,
			DurationMin: r.DurationMin,
			Cost:        r.Cost,
			EndTime:     r.EndTime.String(),
			GPS:         toPoints(r.GPS),
			Recharges:   make([]RechargeEvent, len(r.Recharges)),
			Variants:    make([]RouteVariant, len(r.Variants)),
		}
		for j, event := range r.Recharges {
			response.Routes[i].Recharges[j] = RechargeEvent{
				StationID:    event.StationID,
				BeforeStopID: event.BeforeStopID,
				DurationMin:  event.DurationMin,
			}
		}
		for j, v := range r.Variants {
			response.Routes[i].Variants[j] = toRouteVariant(v)
		}
	}

	return response
}

func toRouteVariant(v route.MetaSolution) RouteVariant {
	return RouteVariant{
		Algo:        v.Algo,
		EstimatedKm: v.EstimatedKm,
		OracleKm:    v.OracleKm,
		OracleMin:   v.OracleMin,
		Cost:        v.Cost,
		OrderedIDs:  v.OrderedIDs,
		Geometry:    toPoints(v.Geometry),
	}
}

func toPoints(points []kernel.GeoPoint) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{Lat: p.Lat(), Lon: p.Lon()}
	}
	return out
}
