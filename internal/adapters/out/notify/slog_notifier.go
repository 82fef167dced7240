// Package notify delivers customer and courier notifications. The production
// deployment would plug a push or SMS gateway in here; this implementation
// writes structured log records, which is enough for local development and
// for the notification contract tests.
package notify

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// SlogNotifier implements ports.Notifier by logging every notification.
type SlogNotifier struct {
	log *slog.Logger
}

// NewSlogNotifier creates a notifier that logs notifications.
func NewSlogNotifier(log *slog.Logger) *SlogNotifier {
	return &SlogNotifier{log: log.With("component", "notify")}
}

// Notify logs the notification. Never fails: notifications are best-effort
// and must not interfere with the business operation that triggered them.
func (n *SlogNotifier) Notify(_ context.Context, notification ports.Notification) {
	n.log.Info("notification",
		"category", notification.Category,
		"recipient", string(notification.Recipient),
		"recipient_id", notification.RecipientID.String(),
		"order_id", notification.OrderID.String(),
		"title", notification.Title,
		"body", notification.Body)
}
