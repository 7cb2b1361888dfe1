// Package validation holds the feasibility checks shared by all assignment
// solvers: carrying capacity, courier schedule and weather exclusion zones.
//
// Validators return a boolean verdict plus a human-readable reason for the
// rejection, so callers can surface why an order could not be matched to a
// courier.
package validation

import (
	"fmt"

	"optiroute/internal/core/domain/model/courier"
	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/core/domain/model/order"
)

// CapacityValidator checks whether a courier can take one more order given
// the weight already planned on the tour.
type CapacityValidator struct{}

// NewCapacityValidator creates a capacity validator.
func NewCapacityValidator() *CapacityValidator {
	return &CapacityValidator{}
}

// CanAdd reports whether adding o on top of currentLoadKg stays within the
// courier's capacity. On rejection the reason states the overflow.
func (v *CapacityValidator) CanAdd(c *courier.Courier, currentLoadKg float64, o *order.Order) (bool, string) {
	total := currentLoadKg + o.WeightKg()
	if total > c.CapacityKg() {
		return false, fmt.Sprintf("Poids dépassé: %.1f kg > %.1f kg", total, c.CapacityKg())
	}
	return true, ""
}

// ScheduleValidator checks whether a courier can work at a given time.
type ScheduleValidator struct{}

// NewScheduleValidator creates a schedule validator.
func NewScheduleValidator() *ScheduleValidator {
	return &ScheduleValidator{}
}

// IsAvailable reports whether the courier is marked available and the given
// time falls inside the work window.
func (v *ScheduleValidator) IsAvailable(c *courier.Courier, at kernel.TimeOfDay) (bool, string) {
	if !c.IsAvailable() {
		return false, fmt.Sprintf("coursier %s indisponible", c.ID())
	}
	if !at.InWindow(c.WorkStart(), c.WorkEnd()) {
		return false, fmt.Sprintf("hors plage de travail %s-%s", c.WorkStart(), c.WorkEnd())
	}
	return true, ""
}

// WeatherValidator decides whether a delivery location can be served under
// the current weather. Locations inside a danger zone are excluded from the
// run entirely; their orders stay pending.
type WeatherValidator interface {
	// Allows reports whether the point can be served, with a reason when
	// it cannot.
	Allows(p kernel.GeoPoint) (bool, string)
}

// ClearSkies is the default WeatherValidator: everything is deliverable.
type ClearSkies struct{}

// Allows always permits delivery.
func (ClearSkies) Allows(kernel.GeoPoint) (bool, string) {
	return true, ""
}

// StaticForecast excludes every location within RadiusKm of a danger center
// (flood, storm cell, closed area).
type StaticForecast struct {
	Danger   kernel.GeoPoint
	RadiusKm float64
}

// Allows rejects points inside the danger radius.
func (f StaticForecast) Allows(p kernel.GeoPoint) (bool, string) {
	km := f.Danger.HaversineTo(p)
	if km <= f.RadiusKm {
		return false, fmt.Sprintf("zone météo dangereuse: %.1f km du centre", km)
	}
	return true, ""
}
