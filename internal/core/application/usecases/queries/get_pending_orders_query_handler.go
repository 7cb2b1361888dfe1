package queries

import (
	"context"

	"gorm.io/gorm"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
)

// GetPendingOrdersQueryHandler retrieves the order backlog from the database.
// Deferred orders are part of the backlog: they re-enter the next run.
//
// Example:
//
//	handler := NewGetPendingOrdersQueryHandler(db)
//	query := NewGetPendingOrdersQuery()
//
//	backlog, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get pending orders: %v", err)
//	    return err
//	}
//
//	if len(backlog) > 0 {
//	    fmt.Printf("%d orders awaiting optimization\n", len(backlog))
//	}
type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingOrdersQueryHandler creates a handler for backlog queries.
// Requires a GORM database connection for query execution.
func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle executes the query and returns pending and deferred orders sorted
// by priority, then by ID for stable output.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			lat,
			lon,
			weight_kg,
			priority,
			status,
			address,
			window_start_min,
			window_end_min
		FROM orders
		WHERE status IN (?, ?)
		ORDER BY priority, id
	`, order.Pending, order.Deferred).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var o GetPendingOrdersQueryResponse
		var lat, lon float64
		var status int
		var windowStartMin, windowEndMin *int

		err = rows.Scan(
			&o.ID,
			&lat,
			&lon,
			&o.WeightKg,
			&o.Priority,
			&status,
			&o.Address,
			&windowStartMin,
			&windowEndMin,
		)
		if err != nil {
			return nil, err
		}

		location, locErr := kernel.NewGeoPoint(lat, lon)
		if locErr != nil {
			return nil, locErr
		}
		o.Location = location
		o.Status = order.Status(status).String()

		if windowStartMin != nil {
			start, startErr := kernel.NewTimeOfDay(*windowStartMin)
			if startErr != nil {
				return nil, startErr
			}
			o.WindowStart = &start
		}
		if windowEndMin != nil {
			end, endErr := kernel.NewTimeOfDay(*windowEndMin)
			if endErr != nil {
				return nil, endErr
			}
			o.WindowEnd = &end
		}

		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
