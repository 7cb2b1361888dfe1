package ports

import (
	"context"
	"fmt"

	"optiroute/internal/core/domain/model/kernel"
)

// Leg is a single road-level segment between two points: real driving
// distance and duration, as opposed to the straight-line haversine estimate.
type Leg struct {
	DistanceKm  float64
	DurationMin float64
}

// RouteGeometry is a road-level path through a point sequence, including
// its polyline when the oracle provides geometries.
type RouteGeometry struct {
	DistanceKm  float64
	DurationMin float64
	Geometry    []kernel.GeoPoint
}

// RouteOracle answers road network questions: pairwise travel matrices for
// solvers and per-leg routes for simulation. Implementations talk to an
// external routing engine; callers must be prepared for OracleError and fall
// back to haversine estimates where the business allows it.
type RouteOracle interface {
	// Table returns the full pairwise distance (km) and duration (min)
	// matrices for the given points. Unreachable pairs come back as zero.
	Table(ctx context.Context, points []kernel.GeoPoint) (distKm [][]float64, durMin [][]float64, err error)

	// Route returns the best single road path between two points.
	Route(ctx context.Context, from, to kernel.GeoPoint) (Leg, error)

	// RouteFull returns the road path visiting all points in order,
	// geometry included.
	RouteFull(ctx context.Context, points []kernel.GeoPoint) (RouteGeometry, error)
}

// OracleError wraps failures of the routing oracle: network errors, non-Ok
// engine responses, malformed payloads. Callers detect it with errors.As to
// decide whether a haversine fallback applies.
type OracleError struct {
	Message string
	Cause   error
}

func (e *OracleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("route oracle: %s (cause: %s)", e.Message, e.Cause)
	}
	return fmt.Sprintf("route oracle: %s", e.Message)
}

func (e *OracleError) Unwrap() error {
	return e.Cause
}

// NewOracleError creates an OracleError with an optional cause.
func NewOracleError(message string, cause error) *OracleError {
	return &OracleError{Message: message, Cause: cause}
}
