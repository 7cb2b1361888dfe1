// Package station holds the recharge station catalog used by route
// simulation for electric couriers.
package station

import (
	"errors"

	"optiroute/internal/core/domain/model/kernel"
	"optiroute/internal/pkg/errs"
	"optiroute/internal/pkg/guard"
)

// ErrStationIsNotConstructed is returned when using an improperly
// initialized RechargeStation.
var ErrStationIsNotConstructed = errors.New("RechargeStation must be created via NewRechargeStation constructor")

// RechargeStation is a fixed charging point electric couriers can detour to
// when the battery would not cover the next leg.
type RechargeStation struct {
	// id uniquely identifies the station
	id string
	// location is the station's position
	location kernel.GeoPoint
	// name is an optional human-readable label
	name string
	// guard ensures the station was properly constructed
	guard guard.ConstructorGuard
}

// NewRechargeStation creates a validated recharge station.
func NewRechargeStation(id string, location kernel.GeoPoint, name string) (*RechargeStation, error) {
	if id == "" {
		return nil, errs.NewValueIsRequiredError("id")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}

	return &RechargeStation{
		id:       id,
		location: location,
		name:     name,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the station was created through its constructor.
func (s *RechargeStation) Validate() error {
	if s == nil {
		return ErrStationIsNotConstructed
	}
	return s.guard.Validate(ErrStationIsNotConstructed)
}

// ID returns the station's unique identifier.
func (s *RechargeStation) ID() string {
	return s.id
}

// Location returns the station's position.
func (s *RechargeStation) Location() kernel.GeoPoint {
	return s.location
}

// Name returns the station's human-readable label ("" if unnamed).
func (s *RechargeStation) Name() string {
	return s.name
}

// Nearest returns the station closest to from by haversine distance, or nil
// when the catalog is empty. Ties keep the earliest station in the slice.
func Nearest(from kernel.GeoPoint, stations []*RechargeStation) *RechargeStation {
	var best *RechargeStation
	bestKm := 0.0

	for _, s := range stations {
		km := from.HaversineTo(s.Location())
		if best == nil || km < bestKm {
			best = s
			bestKm = km
		}
	}

	return best
}
