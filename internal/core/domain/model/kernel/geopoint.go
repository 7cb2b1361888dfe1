package kernel

import (
	"errors"
	"fmt"
	"math"

	"optiroute/internal/pkg/errs"
	"optiroute/internal/pkg/guard"
)

// EarthRadiusKm is the spherical-earth radius used for haversine distances.
const EarthRadiusKm = 6371.0

// Coordinate bounds in decimal degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint. Points must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object representing a WGS84 position in
// decimal degrees. The zero value is invalid and fails validation; use
// NewGeoPoint to create instances.
//
// Example:
//
//	depot, err := kernel.NewGeoPoint(48.8566, 2.3522)
//	if err != nil {
//	    // handle validation error
//	}
//	km := depot.HaversineTo(destination)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a validated GeoPoint. Latitude must lie within
// [-90, 90] and longitude within [-180, 180], both in decimal degrees.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	p := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLon(lon)); err != nil {
		return GeoPoint{}, err
	}

	return p, nil
}

// Validate checks that the GeoPoint was created through its constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in decimal degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// IsEqual compares two points for exact coordinate equality.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lon == other.lon
}

// HaversineTo returns the great-circle distance to other in kilometers
// using the haversine formula on a spherical earth of radius EarthRadiusKm.
//
// Example:
//
//	paris, _ := kernel.NewGeoPoint(48.8566, 2.3522)
//	lyon, _ := kernel.NewGeoPoint(45.7640, 4.8357)
//	km := paris.HaversineTo(lyon) // ≈ 392 km
func (p GeoPoint) HaversineTo(other GeoPoint) float64 {
	lat1 := p.lat * math.Pi / 180
	lat2 := other.lat * math.Pi / 180
	dLat := (other.lat - p.lat) * math.Pi / 180
	dLon := (other.lon - p.lon) * math.Pi / 180

	x := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(x))
}

// String returns "GeoPoint(lat,lon)" for debugging and logging.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lon)
}

// setLat sets the latitude with validation.
// Note: pointer receiver is intentional for self-encapsulated validation
// during construction, while all public methods use value receivers.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < MinLatitude || lat > MaxLatitude || math.IsNaN(lat) {
		return errs.NewValueIsOutOfRangeError("latitude", lat, MinLatitude, MaxLatitude)
	}

	p.lat = lat
	return nil
}

// setLon sets the longitude with validation.
func (p *GeoPoint) setLon(lon float64) error {
	if lon < MinLongitude || lon > MaxLongitude || math.IsNaN(lon) {
		return errs.NewValueIsOutOfRangeError("longitude", lon, MinLongitude, MaxLongitude)
	}

	p.lon = lon
	return nil
}
