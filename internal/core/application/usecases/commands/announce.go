package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// announceStatusChange fans a committed status change out to the tracking
// broadcaster, the message broker, and the notification sink. All sinks are
// fire-and-forget; a failure there never unwinds the committed transition.
func announceStatusChange(
	ctx context.Context,
	notifier ports.Notifier,
	tracking ports.TrackingPublisher,
	events ports.OrderEventPublisher,
	aggregate *order.Order,
	previous order.Status,
	actor order.Actor,
) {
	if aggregate.Status().IsTerminal() {
		tracking.Terminate(aggregate.ID(), aggregate.Status())
	} else {
		tracking.PublishStatus(aggregate.ID(), aggregate.Status())
	}

	events.PublishStatusChanged(ctx, aggregate, previous, actor)

	notifier.Notify(ctx, ports.Notification{
		Recipient: order.ActorCustomer,
		Category:  ports.NotificationStatusChanged,
		Title:     fmt.Sprintf("Order %s is %s", aggregate.Number(), aggregate.Status()),
		Body:      fmt.Sprintf("Your order moved from %s to %s.", previous, aggregate.Status()),
		OrderID:   aggregate.ID(),
	})
}
