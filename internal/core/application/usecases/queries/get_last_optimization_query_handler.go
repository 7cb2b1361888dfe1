package queries

import (
	"context"

	"optiroute/internal/core/application/usecases/commands"
)

// GetLastOptimizationQueryHandler serves the cached result of the most
// recent run. Unlike the database-backed queries this reads from memory:
// run diagnostics are ephemeral and rebuilt by the next run.
type GetLastOptimizationQueryHandler struct {
	store *LastOptimizationStore
}

// NewGetLastOptimizationQueryHandler creates a handler reading from the
// given store.
func NewGetLastOptimizationQueryHandler(store *LastOptimizationStore) GetLastOptimizationQueryHandler {
	return GetLastOptimizationQueryHandler{store: store}
}

// Handle returns the last run's result, or ErrNoOptimizationYet before the
// first completed run.
func (h GetLastOptimizationQueryHandler) Handle(
	_ context.Context,
	query GetLastOptimizationQuery,
) (*commands.OptimizationResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := h.store.Get()
	if result == nil {
		return nil, ErrNoOptimizationYet
	}
	return result, nil
}
