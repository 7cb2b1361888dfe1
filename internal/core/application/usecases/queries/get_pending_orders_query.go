package queries

import (
	"errors"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/pkg/guard"
)

var ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
	"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
)

// GetPendingOrdersQuery retrieves the orders awaiting optimization: pending
// orders plus orders deferred by a previous run.
//
// Example:
//
//	query := NewGetPendingOrdersQuery()
//	handler := NewGetPendingOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve pending orders: %w", err)
//	}
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingOrdersQuery creates a query for the pending order backlog.
func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingOrdersQueryIsNotConstructed if validation fails.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

// GetPendingOrdersQueryResponse represents one backlog order in the read
// model. Window bounds are nil for orders without a delivery window.
type GetPendingOrdersQueryResponse struct {
	ID          string
	Location    kernel.GeoPoint
	WeightKg    float64
	Priority    int
	Status      string
	Address     string
	WindowStart *kernel.TimeOfDay
	WindowEnd   *kernel.TimeOfDay
}
