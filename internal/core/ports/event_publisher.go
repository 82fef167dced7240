package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderEventPublisher emits order status changes to the message broker for
// downstream consumers (analytics, CRM). Publishing is fire-and-forget:
// implementations log failures and never surface them to command handlers.
type OrderEventPublisher interface {
	PublishStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status, actor order.Actor)
}
