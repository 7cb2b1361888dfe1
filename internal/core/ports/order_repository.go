// Package ports defines the contracts between the optimization core and the
// infrastructure adapters: persistence, the road routing oracle and event
// publishing. Interfaces here enable dependency inversion and testability.
package ports

import (
	"context"

	"optiroute/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id string) (*order.Order, error)

	// GetAllPending retrieves the orders waiting for optimization: those in
	// Pending status plus those deferred by a previous run.
	GetAllPending(ctx context.Context) ([]*order.Order, error)
}
