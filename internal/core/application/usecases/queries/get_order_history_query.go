package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery retrieves an order's audit timeline: every accepted
// status and assignment change in the order they happened.
type GetOrderHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a query for the order's audit timeline.
func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return GetOrderHistoryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// OrderID returns the order whose timeline is requested.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderHistoryQueryResponse is one timeline entry.
type GetOrderHistoryQueryResponse struct {
	ID         kernel.UUID
	FromStatus string
	ToStatus   string
	Actor      string
	Notes      string
	CreatedAt  time.Time
}
