// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// Battery columns are nullable: couriers on thermal vehicles have none.
type CourierDTO struct {
	ID                  string  `gorm:"type:varchar(64);primaryKey"`
	Name                string  `gorm:"type:varchar(255);not null"`
	DepotLat            float64 `gorm:"not null"`
	DepotLon            float64 `gorm:"not null"`
	CapacityKg          float64 `gorm:"not null"`
	SpeedKmh            float64 `gorm:"not null"`
	CostPerKm           float64 `gorm:"not null"`
	WorkStartMin        int     `gorm:"not null"`
	WorkEndMin          int     `gorm:"not null"`
	Available           bool    `gorm:"index"`
	BatteryMaxMin       *float64
	BatteryRemainingMin *float64
	BatteryRechargeRate *float64
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// fromDomain converts a courier domain aggregate to its database representation.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:           aggregate.ID(),
		Name:         aggregate.Name(),
		DepotLat:     aggregate.Depot().Lat(),
		DepotLon:     aggregate.Depot().Lon(),
		CapacityKg:   aggregate.CapacityKg(),
		SpeedKmh:     aggregate.SpeedKmh(),
		CostPerKm:    aggregate.CostPerKm(),
		WorkStartMin: aggregate.WorkStart().Minutes(),
		WorkEndMin:   aggregate.WorkEnd().Minutes(),
		Available:    aggregate.IsAvailable(),
	}

	if b := aggregate.Battery(); b != nil {
		maxMin := b.Max()
		remaining := b.Remaining()
		rate := b.RechargeRate()
		dto.BatteryMaxMin = &maxMin
		dto.BatteryRemainingMin = &remaining
		dto.BatteryRechargeRate = &rate
	}

	return dto
}

// toDomain converts a database DTO to a courier domain aggregate.
// Reconstructs the complete aggregate including the battery using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	depot, err := kernel.NewGeoPoint(dto.DepotLat, dto.DepotLon)
	if err != nil {
		return nil, err
	}

	workStart, err := kernel.NewTimeOfDay(dto.WorkStartMin)
	if err != nil {
		return nil, err
	}
	workEnd, err := kernel.NewTimeOfDay(dto.WorkEndMin)
	if err != nil {
		return nil, err
	}

	var battery *courier.Battery
	if dto.BatteryMaxMin != nil && dto.BatteryRemainingMin != nil && dto.BatteryRechargeRate != nil {
		battery, err = courier.RestoreBattery(*dto.BatteryMaxMin, *dto.BatteryRemainingMin, *dto.BatteryRechargeRate)
		if err != nil {
			return nil, err
		}
	}

	return courier.RestoreCourier(
		dto.ID,
		dto.Name,
		depot,
		dto.CapacityKg,
		dto.SpeedKmh,
		dto.CostPerKm,
		workStart,
		workEnd,
		dto.Available,
		battery,
	)
}
