package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly
// initialized GeoPoint. GeoPoints must be created via the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint is an immutable value object representing a WGS84 coordinate pair.
// It is used for courier positions, geocoded delivery addresses, and the GPS
// evidence attached to delivery photos. The zero value is invalid and fails
// validation; use the constructor.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(41.0082, 28.9784)
//	if err != nil {
//	    // out-of-range coordinates
//	}
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with validated coordinates.
// Latitude must be within [-90, 90] and longitude within [-180, 180] degrees.
func NewGeoPoint(lat float64, lon float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLat(lat), point.setLon(lon)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was created through NewGeoPoint.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lon returns the longitude in degrees.
func (p GeoPoint) Lon() float64 {
	return p.lon
}

// String implements fmt.Stringer, formatting coordinates with six decimal places.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.lat, p.lon)
}

// IsEqual compares two points for coordinate equality.
// Both points must be properly constructed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lon == other.lon, nil
}

// setLat sets the latitude with range validation.
// Pointer receiver is intentional: private setters mutate during construction only.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

// setLon sets the longitude with range validation.
// Pointer receiver is intentional: private setters mutate during construction only.
func (p *GeoPoint) setLon(lon float64) error {
	if lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lon", lon, LongitudeMin, LongitudeMax)
	}

	p.lon = lon
	return nil
}
