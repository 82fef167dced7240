// Package queries contains read-only operations in the CQRS architecture.
// Query handlers bypass the aggregates and read projections straight from the
// database, so list and detail endpoints never pay aggregate reconstruction
// costs.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order's fulfillment summary.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order's current state.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the fulfillment summary of one order, including
// the verification and photo gates a client needs to render what happens
// next.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	Number                string
	Status                string
	Paid                  bool
	CourierID             *kernel.UUID
	DeliveryAddress       string
	GeocodeStatus         string
	Lat                   *float64
	Lon                   *float64
	IsCOD                 bool
	CODVerified           bool
	CODAutoApproved       bool
	DeparturePhotoRef     string
	ArrivalPhotoRef       string
	ActualDeliveryMinutes *int
	CreatedAt             time.Time
	AssignedAt            *time.Time
	PickupTime            *time.Time
	CompletedAt           *time.Time
}
