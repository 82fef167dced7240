package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Geocoder resolves a free-form delivery address into coordinates.
// Resolution is best effort: callers treat failures as retryable and must not
// fail order intake when the lookup errors out.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kernel.GeoPoint, error)
}
