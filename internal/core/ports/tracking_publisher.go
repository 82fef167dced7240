package ports

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// TrackingPublisher pushes real-time tracking events into the broadcast
// layer. All methods are non-blocking; events for orders nobody watches are
// dropped.
type TrackingPublisher interface {
	// PublishStatus relays a status change to every subscriber of the order.
	PublishStatus(orderID kernel.UUID, status order.Status)

	// PublishLocation relays a courier position ping to every subscriber of
	// the order.
	PublishLocation(orderID kernel.UUID, location kernel.GeoPoint)

	// Terminate closes the stream for the order after a terminal status. All
	// subscribers receive a completion event and their channels are closed.
	Terminate(orderID kernel.UUID, status order.Status)
}
