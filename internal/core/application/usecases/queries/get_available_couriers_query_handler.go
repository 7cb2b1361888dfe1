package queries

import (
	"context"

	"gorm.io/gorm"

	"optiroute/internal/core/domain/model/kernel"
)

// GetAvailableCouriersQueryHandler retrieves the available fleet from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern.
//
// Example:
//
//	handler := NewGetAvailableCouriersQueryHandler(db)
//	query := NewGetAvailableCouriersQuery()
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get couriers: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Found %d available couriers\n", len(couriers))
type GetAvailableCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableCouriersQueryHandler creates a handler for fleet retrieval
// queries. Requires a GORM database connection for query execution.
func NewGetAvailableCouriersQueryHandler(db *gorm.DB) GetAvailableCouriersQueryHandler {
	return GetAvailableCouriersQueryHandler{db: db}
}

// Handle executes the query and returns the available couriers sorted by
// name. Converts database types to domain types for consistency.
func (h GetAvailableCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableCouriersQuery,
) ([]GetAvailableCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAvailableCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			depot_lat,
			depot_lon,
			capacity_kg,
			speed_kmh,
			cost_per_km,
			work_start_min,
			work_end_min,
			battery_remaining_min
		FROM couriers
		WHERE available
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c GetAvailableCouriersQueryResponse
		var depotLat, depotLon float64
		var workStartMin, workEndMin int

		err = rows.Scan(
			&c.ID,
			&c.Name,
			&depotLat,
			&depotLon,
			&c.CapacityKg,
			&c.SpeedKmh,
			&c.CostPerKm,
			&workStartMin,
			&workEndMin,
			&c.BatteryRemainingMin,
		)
		if err != nil {
			return nil, err
		}

		depot, depotErr := kernel.NewGeoPoint(depotLat, depotLon)
		if depotErr != nil {
			return nil, depotErr
		}
		c.Depot = depot

		workStart, startErr := kernel.NewTimeOfDay(workStartMin)
		if startErr != nil {
			return nil, startErr
		}
		c.WorkStart = workStart

		workEnd, endErr := kernel.NewTimeOfDay(workEndMin)
		if endErr != nil {
			return nil, endErr
		}
		c.WorkEnd = workEnd

		couriers = append(couriers, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
