package order

import (
	"fmt"

	"optiroute/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions:
//
//	Pending ──┬──> Assigned ──┬──> Delivered
//	          │       │       │
//	          └───────┘       └──> Deferred ──> Pending (next run)
//	     (reassignment allowed)
//
// Deferred orders re-enter the next optimization as pending work; the
// repository surfaces them alongside Pending orders.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of an order waiting for optimization.
	Pending

	// Assigned indicates the order belongs to a courier's planned tour.
	Assigned

	// Delivered indicates the order was completed within the workday.
	Delivered

	// Deferred indicates the order was planned but pushed past the
	// courier's workday end and must be re-optimized.
	Deferred
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Assigned:  "Assigned",
		Delivered: "Delivered",
		Deferred:  "Deferred",
	}
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ValidateAssign checks whether assignment is allowed from this status.
// Pending and Deferred orders may be (re)assigned; so may Assigned orders,
// which permits reassignment within a run. Delivered orders may not.
func (s Status) ValidateAssign() error {
	if s != Pending && s != Assigned && s != Deferred {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to assign", s.String()))
	}
	return nil
}

// Assign transitions the status to Assigned.
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}
	return Assigned, nil
}

// Deliver transitions the status to Delivered. Only Assigned orders can be
// delivered.
func (s Status) Deliver() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to deliver", s.String()))
	}
	return Delivered, nil
}

// Defer transitions the status to Deferred. Only Assigned orders can be
// deferred (the workday ran out before the stop was reached).
func (s Status) Defer() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%s is not a valid status to defer", s.String()))
	}
	return Deferred, nil
}
