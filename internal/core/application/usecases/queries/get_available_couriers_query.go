// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/pkg/guard"
)

var ErrGetAvailableCouriersQueryIsNotConstructed = errors.New(
	"GetAvailableCouriersQuery must be created via NewGetAvailableCouriersQuery constructor",
)

// GetAvailableCouriersQuery retrieves every courier currently available for
// assignment. Returns fleet identities, depots and working capacity for
// monitoring and dispatching.
//
// Example:
//
//	query := NewGetAvailableCouriersQuery()
//	handler := NewGetAvailableCouriersQueryHandler(db)
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//
//	for _, c := range couriers {
//	    fmt.Printf("Courier %s at depot %s\n", c.Name, c.Depot)
//	}
type GetAvailableCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableCouriersQuery creates a query to retrieve the available
// fleet. This is a parameterless query.
func NewGetAvailableCouriersQuery() GetAvailableCouriersQuery {
	return GetAvailableCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableCouriersQueryIsNotConstructed if validation fails.
func (q GetAvailableCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableCouriersQueryIsNotConstructed)
}

// GetAvailableCouriersQueryResponse represents courier information in the
// read model. BatteryRemainingMin is nil for couriers without a battery.
type GetAvailableCouriersQueryResponse struct {
	ID                  string
	Name                string
	Depot               kernel.GeoPoint
	CapacityKg          float64
	SpeedKmh            float64
	CostPerKm           float64
	WorkStart           kernel.TimeOfDay
	WorkEnd             kernel.TimeOfDay
	BatteryRemainingMin *float64
}
