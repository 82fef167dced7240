package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAvailableCouriersQueryIsNotConstructed = errors.New(
	"GetAvailableCouriersQuery must be created via NewGetAvailableCouriersQuery constructor",
)

// GetAvailableCouriersQuery retrieves every courier currently open for
// assignment, for the dispatcher's manual-assign picker.
type GetAvailableCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableCouriersQuery creates a query for assignable couriers.
func NewGetAvailableCouriersQuery() GetAvailableCouriersQuery {
	return GetAvailableCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableCouriersQueryIsNotConstructed)
}

// GetAvailableCouriersQueryResponse represents one assignable courier.
// Location fields are nil until the courier's device reports a position.
type GetAvailableCouriersQueryResponse struct {
	ID                kernel.UUID
	Name              string
	VehicleType       string
	Lat               *float64
	Lon               *float64
	LocationUpdatedAt *time.Time
}
