package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// UpdateWithStatusGuard persists changes only when the stored row still
	// carries expectedStatus. Returns courier.ErrNotAvailable when another
	// writer moved the courier first; the aggregate is not persisted.
	UpdateWithStatusGuard(ctx context.Context, aggregate *courier.Courier, expectedStatus courier.Status) error

	// Get retrieves a courier aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such courier exists.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves couriers in Available status, the assignment
	// candidates served to the admin console.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
