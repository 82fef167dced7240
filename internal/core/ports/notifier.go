package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Notification categories understood by downstream sinks.
const (
	NotificationStatusChanged   = "status_changed"
	NotificationCourierAssigned = "courier_assigned"
	NotificationOTPIssued       = "otp_issued"
)

// Notification is a fire-and-forget message addressed to a single actor.
// RecipientID may be the zero UUID for customer notifications; the sink
// resolves the customer from OrderID.
type Notification struct {
	RecipientID kernel.UUID
	Recipient   order.Actor
	Category    string
	Title       string
	Body        string
	OrderID     kernel.UUID
}

// Notifier delivers notifications to customers and couriers. Implementations
// must not block command execution: delivery failures are logged, never
// propagated to the caller.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}
