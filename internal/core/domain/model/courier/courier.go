package courier

import (
	"errors"
	"fmt"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/pkg/errs"
	"optiroute/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrIDIsRequired is returned when attempting to create a courier without an ID.
	ErrIDIsRequired = errs.NewValueIsRequiredError("id")
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrBatteryIsNotConstructed is returned when using an improperly initialized Battery.
	ErrBatteryIsNotConstructed = errors.New("Battery must be created via NewBattery constructor")
)

// Courier represents a delivery courier. It is an aggregate root managing
// courier identity, capacity, the daily work window and, for electric
// vehicles, the battery state.
//
// Business rules:
//   - Courier must have a non-empty ID and name
//   - Capacity must be positive (kilograms)
//   - Speed must be positive (km/h); it backs the fallback travel estimate
//   - Cost per kilometre must be non-negative
//   - Work window start must be strictly before end
//   - Battery is optional; couriers without one never detour to recharge
//
// Example usage:
//
//	depot, _ := kernel.NewGeoPoint(48.86, 2.35)
//	start, _ := kernel.ParseTimeOfDay("08:00")
//	end, _ := kernel.ParseTimeOfDay("18:00")
//	c, err := courier.NewCourier("C1", "Alice", depot, 20, 25, 0.5, start, end)
//	if err != nil {
//	    // Handle construction error
//	}
type Courier struct {
	// id uniquely identifies the courier
	id string
	// name is the human-readable name of the courier
	name string
	// depot is the point where the courier starts and ends the day
	depot kernel.GeoPoint
	// capacityKg is the maximum total parcel weight the courier can carry
	capacityKg float64
	// speedKmh is the average travel speed, used when the routing oracle
	// cannot provide a duration
	speedKmh float64
	// costPerKm is the operating cost per kilometre driven
	costPerKm float64
	// workStart and workEnd bound the courier's workday
	workStart kernel.TimeOfDay
	workEnd   kernel.TimeOfDay
	// available reports whether the courier can be assigned work today
	available bool
	// battery is the electric vehicle battery (nil for non-electric)
	battery *Battery
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified parameters. This is
// the only way to create a valid Courier instance; it validates every input
// and returns the aggregated errors when several are invalid.
//
// Parameters:
//   - id: Unique identifier (must be non-empty)
//   - name: Human-readable name (must be non-empty)
//   - depot: Start and end point of the courier's day
//   - capacityKg: Maximum carried weight in kilograms (must be positive)
//   - speedKmh: Average speed in km/h (must be positive)
//   - costPerKm: Operating cost per kilometre (must be non-negative)
//   - workStart, workEnd: Workday bounds (start must precede end)
//
// The courier is created available and without a battery; call SetBattery
// for electric vehicles.
func NewCourier(
	id string,
	name string,
	depot kernel.GeoPoint,
	capacityKg float64,
	speedKmh float64,
	costPerKm float64,
	workStart kernel.TimeOfDay,
	workEnd kernel.TimeOfDay,
) (*Courier, error) {
	c := &Courier{
		available: true,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setDepot(depot),
		c.setCapacity(capacityKg),
		c.setSpeed(speedKmh),
		c.setCostPerKm(costPerKm),
		c.setWorkWindow(workStart, workEnd),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// including availability and battery state. The restored courier behaves
// identically to one created through normal domain operations.
func RestoreCourier(
	id string,
	name string,
	depot kernel.GeoPoint,
	capacityKg float64,
	speedKmh float64,
	costPerKm float64,
	workStart kernel.TimeOfDay,
	workEnd kernel.TimeOfDay,
	available bool,
	battery *Battery,
) (*Courier, error) {
	c, err := NewCourier(id, name, depot, capacityKg, speedKmh, costPerKm, workStart, workEnd)
	if err != nil {
		return nil, err
	}

	c.available = available
	if battery != nil {
		if err := battery.Validate(); err != nil {
			return nil, err
		}
		c.battery = battery.Clone()
	}

	return c, nil
}

// Validate checks if the Courier was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id == other.id
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() string {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// Depot returns the point where the courier starts and ends the day.
func (c *Courier) Depot() kernel.GeoPoint {
	return c.depot
}

// CapacityKg returns the maximum total parcel weight in kilograms.
func (c *Courier) CapacityKg() float64 {
	return c.capacityKg
}

// SpeedKmh returns the average travel speed in km/h.
func (c *Courier) SpeedKmh() float64 {
	return c.speedKmh
}

// CostPerKm returns the operating cost per kilometre driven.
func (c *Courier) CostPerKm() float64 {
	return c.costPerKm
}

// WorkStart returns the beginning of the courier's workday.
func (c *Courier) WorkStart() kernel.TimeOfDay {
	return c.workStart
}

// WorkEnd returns the end of the courier's workday.
func (c *Courier) WorkEnd() kernel.TimeOfDay {
	return c.workEnd
}

// WorkdayMinutes returns the length of the workday in minutes.
func (c *Courier) WorkdayMinutes() int {
	return c.workEnd.Minutes() - c.workStart.Minutes()
}

// IsAvailable reports whether the courier can be assigned work today.
func (c *Courier) IsAvailable() bool {
	return c.available
}

// SetAvailable marks the courier available or unavailable for assignment.
func (c *Courier) SetAvailable(available bool) {
	c.available = available
}

// Battery returns the courier's battery, or nil for non-electric vehicles.
// The returned battery is the live aggregate state; mutate it only through
// cloned couriers during simulation.
func (c *Courier) Battery() *Battery {
	return c.battery
}

// SetBattery attaches a battery to the courier, making it an electric
// vehicle for route simulation purposes.
func (c *Courier) SetBattery(battery *Battery) error {
	if err := battery.Validate(); err != nil {
		return err
	}
	c.battery = battery
	return nil
}

// TravelMinutes estimates the time to cover the given distance at the
// courier's average speed. It backs the fallback estimate when the routing
// oracle is unreachable.
func (c *Courier) TravelMinutes(distanceKm float64) float64 {
	return distanceKm / c.speedKmh * 60
}

// Clone returns a deep copy of the courier, including the battery state.
// Optimization runs simulate on clones so repository state stays untouched
// until results are explicitly written back.
func (c *Courier) Clone() *Courier {
	clone := *c
	if c.battery != nil {
		clone.battery = c.battery.Clone()
	}
	return &clone
}

// setID sets the courier's unique identifier with validation.
func (c *Courier) setID(id string) error {
	if id == "" {
		return ErrIDIsRequired
	}
	c.id = id
	return nil
}

// setName sets the courier's name with validation.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

// setDepot sets the courier's depot with validation.
func (c *Courier) setDepot(depot kernel.GeoPoint) error {
	if err := depot.Validate(); err != nil {
		return err
	}
	c.depot = depot
	return nil
}

// setCapacity sets the carrying capacity with validation.
func (c *Courier) setCapacity(capacityKg float64) error {
	if capacityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("capacityKg",
			fmt.Errorf("%v is not greater than 0", capacityKg))
	}
	c.capacityKg = capacityKg
	return nil
}

// setSpeed sets the average speed with validation.
func (c *Courier) setSpeed(speedKmh float64) error {
	if speedKmh <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("speedKmh",
			fmt.Errorf("%v is not greater than 0", speedKmh))
	}
	c.speedKmh = speedKmh
	return nil
}

// setCostPerKm sets the per-kilometre cost with validation.
func (c *Courier) setCostPerKm(costPerKm float64) error {
	if costPerKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("costPerKm",
			fmt.Errorf("%v is negative", costPerKm))
	}
	c.costPerKm = costPerKm
	return nil
}

// setWorkWindow sets the workday bounds with validation.
func (c *Courier) setWorkWindow(start, end kernel.TimeOfDay) error {
	if !start.Before(end) {
		return errs.NewValueIsInvalidErrorWithCause("work window",
			fmt.Errorf("start %s is not before end %s", start, end))
	}
	c.workStart = start
	c.workEnd = end
	return nil
}
