// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status and courier assignment.
type OrderDTO struct {
	ID             string  `gorm:"type:varchar(64);primaryKey"`
	CourierID      *string `gorm:"type:varchar(64);index"`
	Lat            float64 `gorm:"not null"`
	Lon            float64 `gorm:"not null"`
	WeightKg       float64 `gorm:"not null"`
	Priority       int     `gorm:"not null"`
	WindowStartMin *int
	WindowEndMin   *int
	ServiceMin     int
	Address        string `gorm:"type:varchar(255)"`
	ClientName     string `gorm:"type:varchar(255)"`
	ClientPhone    string `gorm:"type:varchar(64)"`
	Status         int    `gorm:"index"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including the optional delivery window and courier
// assignment.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *string
	if id := aggregate.Courier(); id != "" {
		courierID = &id
	}

	var windowStartMin, windowEndMin *int
	if w := aggregate.DeliveryWindow(); w != nil {
		start := w.Start.Minutes()
		end := w.End.Minutes()
		windowStartMin = &start
		windowEndMin = &end
	}

	return OrderDTO{
		ID:             aggregate.ID(),
		CourierID:      courierID,
		Lat:            aggregate.Location().Lat(),
		Lon:            aggregate.Location().Lon(),
		WeightKg:       aggregate.WeightKg(),
		Priority:       aggregate.Priority(),
		WindowStartMin: windowStartMin,
		WindowEndMin:   windowEndMin,
		ServiceMin:     aggregate.ServiceMinutes(),
		Address:        aggregate.Address(),
		ClientName:     aggregate.ClientName(),
		ClientPhone:    aggregate.ClientPhone(),
		Status:         int(aggregate.Status()),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and courier assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	location, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	var window *order.DeliveryWindow
	if dto.WindowStartMin != nil && dto.WindowEndMin != nil {
		start, startErr := kernel.NewTimeOfDay(*dto.WindowStartMin)
		if startErr != nil {
			return nil, startErr
		}
		end, endErr := kernel.NewTimeOfDay(*dto.WindowEndMin)
		if endErr != nil {
			return nil, endErr
		}
		w, windowErr := order.NewDeliveryWindow(start, end)
		if windowErr != nil {
			return nil, windowErr
		}
		window = &w
	}

	courierID := ""
	if dto.CourierID != nil {
		courierID = *dto.CourierID
	}

	return order.RestoreOrder(
		dto.ID,
		location,
		dto.WeightKg,
		dto.Priority,
		window,
		dto.ServiceMin,
		dto.Address,
		dto.ClientName,
		dto.ClientPhone,
		courierID,
		order.Status(dto.Status),
	)
}
