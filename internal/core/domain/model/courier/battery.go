package courier

import (
	"fmt"

	"optiroute/internal/pkg/errs"
	"optiroute/internal/pkg/guard"
)

// Battery models the energy reserve of an electric courier vehicle.
// Charge is expressed in driving minutes: a battery with 90 units can power
// 90 minutes of travel. Draining clamps at zero; recharging always restores
// the battery to full.
//
// Battery is a mutable value object owned by its Courier. It is not safe for
// concurrent use; optimization runs operate on courier clones.
type Battery struct {
	// maxUnits is the full capacity in driving minutes
	maxUnits float64
	// remaining is the current charge in driving minutes
	remaining float64
	// rechargeRate is the charge restored per minute plugged in
	rechargeRate float64

	guard guard.ConstructorGuard
}

// NewBattery creates a fully charged battery.
//
// Parameters:
//   - maxUnits: Full capacity in driving minutes (must be positive)
//   - rechargeRate: Units restored per minute at a station (must be positive)
func NewBattery(maxUnits, rechargeRate float64) (*Battery, error) {
	if maxUnits <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("battery maxUnits",
			fmt.Errorf("%v is not greater than 0", maxUnits))
	}
	if rechargeRate <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("battery rechargeRate",
			fmt.Errorf("%v is not greater than 0", rechargeRate))
	}

	return &Battery{
		maxUnits:     maxUnits,
		remaining:    maxUnits,
		rechargeRate: rechargeRate,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// RestoreBattery reconstructs a battery with a specific remaining charge.
// The remaining charge is clamped into [0, maxUnits].
func RestoreBattery(maxUnits, remaining, rechargeRate float64) (*Battery, error) {
	b, err := NewBattery(maxUnits, rechargeRate)
	if err != nil {
		return nil, err
	}

	if remaining < 0 {
		remaining = 0
	}
	if remaining > maxUnits {
		remaining = maxUnits
	}
	b.remaining = remaining
	return b, nil
}

// Max returns the full capacity in driving minutes.
func (b *Battery) Max() float64 {
	return b.maxUnits
}

// Remaining returns the current charge in driving minutes.
func (b *Battery) Remaining() float64 {
	return b.remaining
}

// RechargeRate returns the units restored per minute at a station.
func (b *Battery) RechargeRate() float64 {
	return b.rechargeRate
}

// CanCover reports whether the remaining charge covers the given travel
// minutes.
func (b *Battery) CanCover(units float64) bool {
	return b.remaining >= units
}

// Drain consumes the given travel minutes from the battery, clamping at
// zero. Overshoot past empty is tolerated here; route simulation decides how
// to penalize it.
func (b *Battery) Drain(units float64) {
	b.remaining -= units
	if b.remaining < 0 {
		b.remaining = 0
	}
}

// RechargeFully restores the battery to full capacity and returns the time
// in minutes spent plugged in: (max - remaining) / rechargeRate.
func (b *Battery) RechargeFully() float64 {
	duration := (b.maxUnits - b.remaining) / b.rechargeRate
	b.remaining = b.maxUnits
	return duration
}

// Clone returns an independent copy of the battery.
func (b *Battery) Clone() *Battery {
	clone := *b
	return &clone
}

// Validate ensures the battery was created through a constructor.
func (b *Battery) Validate() error {
	if b == nil {
		return ErrBatteryIsNotConstructed
	}
	return b.guard.Validate(ErrBatteryIsNotConstructed)
}
