package kernel

import (
	"fmt"
	"strconv"
	"strings"

	"optiroute/internal/pkg/errs"
)

// TimeOfDay is an immutable value object holding a wall-clock time as whole
// minutes since midnight. It backs courier work windows, order delivery
// windows, and route timestamps.
//
// Unlike GeoPoint it has no constructor guard: the zero value (00:00) is a
// legitimate time of day.
//
// Example:
//
//	start, err := kernel.ParseTimeOfDay("08:30")
//	if err != nil {
//	    // "value is invalid: time ..."
//	}
//	fmt.Println(start.String()) // "08:30"
type TimeOfDay struct {
	minutes int
}

// NewTimeOfDay creates a TimeOfDay from minutes since midnight. Negative
// values are rejected; values past 24h are accepted so that arithmetic on
// late tours (e.g. an overtime return) stays representable.
func NewTimeOfDay(minutes int) (TimeOfDay, error) {
	if minutes < 0 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("minutes", minutes, 0, "unbounded")
	}
	return TimeOfDay{minutes: minutes}, nil
}

// ParseTimeOfDay parses an "HH:MM" string. Hours must lie in [0, 23] and
// minutes in [0, 59]; anything else fails with a value-is-invalid error.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause("time",
			fmt.Errorf("%q is not in HH:MM format", s))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause("time", err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, errs.NewValueIsInvalidErrorWithCause("time", err)
	}

	if hours < 0 || hours > 23 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("hours", hours, 0, 23)
	}
	if minutes < 0 || minutes > 59 {
		return TimeOfDay{}, errs.NewValueIsOutOfRangeError("minutes", minutes, 0, 59)
	}

	return TimeOfDay{minutes: hours*60 + minutes}, nil
}

// Minutes returns the time as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.minutes
}

// AddMinutes returns a new TimeOfDay shifted forward by delta minutes.
// The result may pass midnight; it is not wrapped.
func (t TimeOfDay) AddMinutes(delta int) TimeOfDay {
	m := t.minutes + delta
	if m < 0 {
		m = 0
	}
	return TimeOfDay{minutes: m}
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.minutes > other.minutes
}

// InWindow reports whether t lies in the closed interval [start, end].
func (t TimeOfDay) InWindow(start, end TimeOfDay) bool {
	return start.minutes <= t.minutes && t.minutes <= end.minutes
}

// String formats the time back to "HH:MM". Times past midnight keep
// accumulating hours ("25:10") so overtime stays visible in diagnostics.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}
