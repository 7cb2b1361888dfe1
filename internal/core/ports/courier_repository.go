package ports

import (
	"context"

	"optiroute/internal/core/domain/model/courier"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier, battery
	// state included.
	Get(ctx context.Context, id string) (*courier.Courier, error)

	// GetAllAvailable retrieves the couriers that can be assigned work
	// today. Unavailable couriers never enter an optimization run.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
