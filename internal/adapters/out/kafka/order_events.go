// Package kafka publishes order lifecycle events to a Kafka topic so other
// services (billing, analytics, customer notifications) can react to status
// changes without polling the database.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// OrderChangedEvent is the wire format of a status change message.
type OrderChangedEvent struct {
	OrderID    string  `json:"order_id"`
	Number     string  `json:"number"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Actor      string  `json:"actor"`
	CourierID  *string `json:"courier_id,omitempty"`
	ChangedAt  string  `json:"changed_at"`
}

// OrderEventPublisher writes status change events to Kafka.
// Publishing is fire-and-forget: the status change is already committed when
// the event goes out, so delivery failures are logged and dropped rather than
// rolled back.
type OrderEventPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewOrderEventPublisher creates a publisher writing to the given topic.
func NewOrderEventPublisher(brokers []string, topic string, log *slog.Logger) *OrderEventPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &OrderEventPublisher{
		writer: writer,
		log:    log.With("component", "kafka"),
	}
}

// PublishStatusChanged sends an OrderChangedEvent keyed by order ID, so all
// events of one order land on the same partition in order.
func (p *OrderEventPublisher) PublishStatusChanged(ctx context.Context, aggregate *order.Order, from order.Status, actor order.Actor) {
	event := OrderChangedEvent{
		OrderID:    aggregate.ID().String(),
		Number:     aggregate.Number(),
		FromStatus: from.String(),
		ToStatus:   aggregate.Status().String(),
		Actor:      string(actor),
		ChangedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if courierID := aggregate.Courier(); courierID != nil {
		id := courierID.String()
		event.CourierID = &id
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("failed to marshal order changed event", "order_id", event.OrderID, "error", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
	})
	if err != nil {
		p.log.Error("failed to publish order changed event",
			"order_id", event.OrderID,
			"to_status", event.ToStatus,
			"error", err)
		return
	}

	p.log.Debug("published order changed event",
		"order_id", event.OrderID,
		"from_status", event.FromStatus,
		"to_status", event.ToStatus)
}

// Close flushes pending messages and closes the underlying writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
