package queries

import (
	"errors"

	"optiroute/internal/pkg/guard"
)

var (
	ErrGetLastOptimizationQueryIsNotConstructed = errors.New(
		"GetLastOptimizationQuery must be created via NewGetLastOptimizationQuery constructor",
	)

	// ErrNoOptimizationYet is returned before the first completed run.
	ErrNoOptimizationYet = errors.New("no optimization has completed yet")
)

// GetLastOptimizationQuery retrieves the diagnostics of the most recent
// optimization run: assignments, realized routes and their per-algorithm
// variants.
//
// Example:
//
//	query := NewGetLastOptimizationQuery()
//	handler := NewGetLastOptimizationQueryHandler(store)
//
//	result, err := handler.Handle(ctx, query)
//	if errors.Is(err, ErrNoOptimizationYet) {
//	    // nothing has run yet
//	}
type GetLastOptimizationQuery struct {
	guard guard.ConstructorGuard
}

// NewGetLastOptimizationQuery creates a query for the last run's diagnostics.
func NewGetLastOptimizationQuery() GetLastOptimizationQuery {
	return GetLastOptimizationQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetLastOptimizationQueryIsNotConstructed if validation fails.
func (q GetLastOptimizationQuery) Validate() error {
	return q.guard.Validate(ErrGetLastOptimizationQueryIsNotConstructed)
}
