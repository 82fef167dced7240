package order

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// GeocodeStatus tracks the outcome of resolving the delivery address to coordinates.
type GeocodeStatus int

const (
	// GeocodePending means the address has not been resolved yet.
	GeocodePending GeocodeStatus = iota
	// GeocodeOK means the address resolved successfully.
	GeocodeOK
	// GeocodeFailed means resolution failed; the error is retained for
	// diagnostics and the lookup is retryable on demand.
	GeocodeFailed
)

// String returns the wire name of the geocode status.
func (s GeocodeStatus) String() string {
	switch s {
	case GeocodeOK:
		return "ok"
	case GeocodeFailed:
		return "failed"
	case GeocodePending:
		return "pending"
	default:
		return "pending"
	}
}

// GeocodeStatusFromString parses a persisted geocode status.
func GeocodeStatusFromString(s string) (GeocodeStatus, error) {
	switch s {
	case "pending":
		return GeocodePending, nil
	case "ok":
		return GeocodeOK, nil
	case "failed":
		return GeocodeFailed, nil
	default:
		return GeocodePending, errs.NewValueIsInvalidError("geocode status")
	}
}

// Validate checks the status is one of the declared values.
func (s GeocodeStatus) Validate() error {
	switch s {
	case GeocodePending, GeocodeOK, GeocodeFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"geocode status", fmt.Errorf("%d is not a valid geocode status", s))
	}
}

// Geocode is the resolution state of the order's delivery address.
// A failed lookup never blocks fulfillment; the order proceeds and the failure
// is kept for diagnostics.
type Geocode struct {
	point   *kernel.GeoPoint
	status  GeocodeStatus
	failure string
}

// Point returns the resolved coordinates, or nil when not (yet) resolved.
func (g Geocode) Point() *kernel.GeoPoint {
	return g.point
}

// Status returns the resolution state.
func (g Geocode) Status() GeocodeStatus {
	return g.status
}

// Failure returns the retained error message of a failed lookup.
func (g Geocode) Failure() string {
	return g.failure
}
