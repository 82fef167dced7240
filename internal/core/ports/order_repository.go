// Package ports defines the contracts between the domain core and
// infrastructure adapters: repositories, the unit of work, and the narrow
// interfaces to external collaborators (notification sink, geocoder, media
// store, event publisher, tracking publisher).
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate without a
	// concurrency guard. Used for non-status mutations such as geocode results.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateWithStatusGuard persists the aggregate only if the stored status
	// still equals expectedStatus, re-reading at the moment of mutation so at
	// most one concurrent transition wins. Returns order.ErrConflict when the
	// guard fails; the caller should refetch and retry.
	UpdateWithStatusGuard(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order aggregate by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetActiveByCourier retrieves the courier's orders in actively tracked
	// statuses (processing, ready, delivering). Used to relay location pings.
	GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error)

	// GetWithFailedGeocode retrieves up to limit orders whose address
	// resolution failed and is eligible for retry.
	GetWithFailedGeocode(ctx context.Context, limit int) ([]*order.Order, error)
}
