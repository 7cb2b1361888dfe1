package order

import (
	"errors"
	"fmt"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/pkg/errs"
	"optiroute/internal/pkg/guard"
)

// Priority levels. Lower value means more urgent.
const (
	// PriorityUrgent marks orders that must be delivered first.
	PriorityUrgent = 1
	// PriorityNormal is the default priority.
	PriorityNormal = 2
	// PriorityFlexible marks orders that tolerate late delivery.
	PriorityFlexible = 3
)

// Domain errors for order operations.
var (
	// ErrIDIsRequired is returned when attempting to create an order without an ID.
	ErrIDIsRequired = errs.NewValueIsRequiredError("id")
	// ErrOrderIsNotConstructed is returned when using an improperly initialized Order.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// DeliveryWindow is the closed time interval [Start, End] inside which the
// client expects the order. Orders without a window can be delivered at any
// time during the courier's workday.
type DeliveryWindow struct {
	Start kernel.TimeOfDay
	End   kernel.TimeOfDay
}

// NewDeliveryWindow creates a validated delivery window. Start must be
// strictly earlier than End.
func NewDeliveryWindow(start, end kernel.TimeOfDay) (DeliveryWindow, error) {
	if !start.Before(end) {
		return DeliveryWindow{}, errs.NewValueIsInvalidErrorWithCause("delivery window",
			fmt.Errorf("start %s is not before end %s", start, end))
	}
	return DeliveryWindow{Start: start, End: end}, nil
}

// Contains reports whether t lies inside the window (closed interval).
func (w DeliveryWindow) Contains(t kernel.TimeOfDay) bool {
	return t.InWindow(w.Start, w.End)
}

// Order represents a delivery order. It is the aggregate root that manages
// the order lifecycle from creation through assignment to completion or
// deferral.
//
// Order follows these invariants:
//   - Must have a non-empty identifier
//   - Must have a valid delivery location
//   - Weight must be non-negative
//   - Priority must be Urgent, Normal or Flexible
//   - Status transitions follow the Status state machine
//   - Can only be created through NewOrder or RestoreOrder
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id string

	// location is the delivery destination
	location kernel.GeoPoint

	// weightKg is the parcel weight in kilograms (non-negative)
	weightKg float64

	// priority is the delivery urgency (1 = urgent, 3 = flexible)
	priority int

	// window is the optional client delivery window (nil if unconstrained)
	window *DeliveryWindow

	// serviceMin is the on-site handling time in minutes
	serviceMin int

	// address, clientName and clientPhone describe the recipient
	address     string
	clientName  string
	clientPhone string

	// courierID is the assigned courier's ID ("" if unassigned)
	courierID string

	// status is the current state in the order lifecycle
	status Status

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order with validation. This is the only way to
// create a fresh order, ensuring all business invariants are maintained.
//
// Parameters:
//   - id: Unique identifier for the order (must be non-empty)
//   - location: Delivery location with validated coordinates
//   - weightKg: Parcel weight in kilograms (must be >= 0)
//   - priority: Delivery urgency (PriorityUrgent, PriorityNormal or PriorityFlexible)
//
// Returns:
//   - *Order: The created order if all validations pass
//   - error: Aggregated validation error otherwise
//
// Example:
//
//	loc, _ := kernel.NewGeoPoint(48.8566, 2.3522)
//	o, err := order.NewOrder("L42", loc, 3.5, order.PriorityUrgent)
//	if err != nil {
//	    // Handle validation error
//	}
//
// The constructor creates the order in Pending status with no courier
// assigned. Optional attributes (delivery window, service time, recipient
// contact) are set afterwards through their dedicated setters.
func NewOrder(id string, location kernel.GeoPoint, weightKg float64, priority int) (*Order, error) {
	o := &Order{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setLocation(location),
		o.setWeight(weightKg),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it accepts the full persisted state, including status and
// the assigned courier, so a loaded order behaves identically to one that
// went through the domain operations.
func RestoreOrder(
	id string,
	location kernel.GeoPoint,
	weightKg float64,
	priority int,
	window *DeliveryWindow,
	serviceMin int,
	address string,
	clientName string,
	clientPhone string,
	courierID string,
	status Status,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setLocation(location),
		o.setWeight(weightKg),
		o.setPriority(priority),
		o.setServiceMinutes(serviceMin),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	if window != nil {
		w := *window
		o.window = &w
	}
	o.address = address
	o.clientName = clientName
	o.clientPhone = clientPhone
	o.courierID = courierID

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
//
// Returns:
//   - nil if the order is valid
//   - ErrOrderIsNotConstructed otherwise
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order's unique identifier.
func (o *Order) ID() string {
	return o.id
}

// Location returns the delivery location for the order.
func (o *Order) Location() kernel.GeoPoint {
	return o.location
}

// WeightKg returns the parcel weight in kilograms.
func (o *Order) WeightKg() float64 {
	return o.weightKg
}

// Priority returns the delivery urgency (1 = urgent, 3 = flexible).
func (o *Order) Priority() int {
	return o.priority
}

// DeliveryWindow returns the client delivery window, or nil when the order
// has no time constraint.
func (o *Order) DeliveryWindow() *DeliveryWindow {
	if o.window == nil {
		return nil
	}
	w := *o.window
	return &w
}

// ServiceMinutes returns the on-site handling time in minutes.
func (o *Order) ServiceMinutes() int {
	return o.serviceMin
}

// Address returns the human-readable delivery address.
func (o *Order) Address() string {
	return o.address
}

// ClientName returns the recipient's name.
func (o *Order) ClientName() string {
	return o.clientName
}

// ClientPhone returns the recipient's phone number.
func (o *Order) ClientPhone() string {
	return o.clientPhone
}

// Courier returns the assigned courier's ID, or "" if unassigned.
func (o *Order) Courier() string {
	return o.courierID
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// SetDeliveryWindow attaches a delivery window to the order.
func (o *Order) SetDeliveryWindow(start, end kernel.TimeOfDay) error {
	w, err := NewDeliveryWindow(start, end)
	if err != nil {
		return err
	}
	o.window = &w
	return nil
}

// SetServiceMinutes sets the on-site handling time.
func (o *Order) SetServiceMinutes(minutes int) error {
	return o.setServiceMinutes(minutes)
}

// SetContact sets the recipient details. Empty values are allowed; contact
// information is informational only and never affects optimization.
func (o *Order) SetContact(address, clientName, clientPhone string) {
	o.address = address
	o.clientName = clientName
	o.clientPhone = clientPhone
}

// Assign assigns the order to a courier and updates the status to Assigned.
//
// Business rules:
//   - The courier ID must be non-empty
//   - The order must be in Pending, Assigned or Deferred status
//   - Reassignment is allowed (from Assigned to Assigned)
//
// Returns:
//   - nil on successful assignment
//   - error if the courier ID is empty or the transition is not allowed
func (o *Order) Assign(courierID string) error {
	if courierID == "" {
		return errs.NewValueIsRequiredError("courierID")
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = courierID
	return nil
}

// Deliver marks the order as delivered. The order must be Assigned.
// Delivered is a final state with no further transitions.
func (o *Order) Deliver() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Defer marks the order as deferred: it was planned but could not be
// completed within the courier's workday. The courier assignment is cleared
// so the next optimization run treats it as pending work.
func (o *Order) Defer() error {
	newStatus, err := o.status.Defer()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.courierID = ""
	return nil
}

// Clone returns a deep copy of the order. Optimization runs operate on
// snapshots so that solver-side mutation never leaks into the repository
// until results are explicitly written back.
func (o *Order) Clone() *Order {
	clone := *o
	if o.window != nil {
		w := *o.window
		clone.window = &w
	}
	return &clone
}

// setID validates and sets the order's unique identifier.
func (o *Order) setID(id string) error {
	if id == "" {
		return ErrIDIsRequired
	}
	o.id = id
	return nil
}

// setLocation validates and sets the order's delivery location.
func (o *Order) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}

// setWeight validates and sets the parcel weight.
func (o *Order) setWeight(weightKg float64) error {
	if weightKg < 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg",
			fmt.Errorf("%v is negative", weightKg))
	}
	o.weightKg = weightKg
	return nil
}

// setPriority validates and sets the delivery priority.
func (o *Order) setPriority(priority int) error {
	if priority < PriorityUrgent || priority > PriorityFlexible {
		return errs.NewValueIsOutOfRangeError("priority", priority, PriorityUrgent, PriorityFlexible)
	}
	o.priority = priority
	return nil
}

// setServiceMinutes validates and sets the on-site handling time.
func (o *Order) setServiceMinutes(minutes int) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause("serviceMinutes",
			fmt.Errorf("%d is negative", minutes))
	}
	o.serviceMin = minutes
	return nil
}

// setStatus validates and sets the order status during restoration.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
