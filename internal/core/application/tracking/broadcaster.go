// Package tracking implements the real-time tracking broadcaster: an
// in-memory fan-out from the order state machine and courier position pings
// to per-order subscriber channels. The transport layer (SSE) drains the
// channels; the broadcaster itself never blocks a producer.
package tracking

import (
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// EventType names the events a tracking stream carries.
type EventType string

const (
	// EventInit acknowledges the subscription and carries the last known state.
	EventInit EventType = "init"

	// EventLocation carries a position or status update for the order.
	EventLocation EventType = "location"

	// EventPing is a keepalive so idle connections are not reaped by proxies.
	EventPing EventType = "ping"

	// EventComplete closes the stream after a terminal status.
	EventComplete EventType = "complete"
)

// Event is one message on a tracking stream.
// Location is nil when no position has been reported yet.
type Event struct {
	Type     EventType
	OrderID  kernel.UUID
	Status   order.Status
	Location *kernel.GeoPoint
}

// DefaultSubscriberBuffer is the per-subscriber channel capacity. A
// subscriber that falls this many events behind is considered dead.
const DefaultSubscriberBuffer = 16

// DefaultKeepaliveInterval is the cadence of ping events.
const DefaultKeepaliveInterval = 25 * time.Second

// completedRetention is how long a terminal status is remembered after
// Terminate. A subscriber whose status read raced the terminal transition
// arrives within this window and still gets its complete event.
const completedRetention = time.Minute

// SubscriberGauge tracks the live subscriber count. Implemented by the
// metrics registry; nil disables counting.
type SubscriberGauge interface {
	SubscriberConnected()
	SubscriberDisconnected()
}

// Subscription is one client's view of an order's tracking stream. The
// events channel is closed when the order reaches a terminal status, the
// subscriber falls too far behind, or the subscription is cancelled.
type Subscription struct {
	orderKey string
	events   chan Event
	closed   bool
}

// Events returns the channel the stream's events arrive on.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

type stream struct {
	status    order.Status
	lastKnown *kernel.GeoPoint
	subs      map[*Subscription]struct{}
}

type completedOrder struct {
	status order.Status
	at     time.Time
}

// Broadcaster fans tracking events out to subscribers, one channel per
// subscriber. Sends are non-blocking: a subscriber whose channel is full is
// closed and dropped, so one slow client can never stall courier pings or
// the state machine.
type Broadcaster struct {
	mu        sync.Mutex
	streams   map[string]*stream
	completed map[string]completedOrder

	buffer    int
	keepalive time.Duration
	gauge     SubscriberGauge
	log       *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// NewBroadcaster creates a broadcaster and starts its keepalive loop.
// Zero buffer and keepalive select the defaults; gauge may be nil.
func NewBroadcaster(buffer int, keepalive time.Duration, gauge SubscriberGauge, log *slog.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	if keepalive <= 0 {
		keepalive = DefaultKeepaliveInterval
	}
	if log == nil {
		log = slog.Default()
	}

	b := &Broadcaster{
		streams:   make(map[string]*stream),
		completed: make(map[string]completedOrder),
		buffer:    buffer,
		keepalive: keepalive,
		gauge:     gauge,
		log:       log.With("component", "tracking"),
		done:      make(chan struct{}),
	}
	go b.keepaliveLoop()
	return b
}

// Subscribe opens a tracking stream for the order. The caller supplies the
// order's current status and last persisted position; the first event is
// always init carrying both. Subscribing to an order already in a terminal
// status yields init followed by complete and an immediately closed channel.
// A recently terminated order counts as terminal even when the caller's
// status read predates the terminal transition.
func (b *Broadcaster) Subscribe(
	orderID kernel.UUID,
	status order.Status,
	lastKnown *kernel.GeoPoint,
) *Subscription {
	sub := &Subscription{
		orderKey: orderID.String(),
		events:   make(chan Event, b.buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if done, ok := b.completed[sub.orderKey]; ok {
		status = done.status
	}
	if status.IsTerminal() {
		sub.events <- Event{Type: EventInit, OrderID: orderID, Status: status, Location: lastKnown}
		sub.events <- Event{Type: EventComplete, OrderID: orderID, Status: status}
		close(sub.events)
		sub.closed = true
		return sub
	}

	s, ok := b.streams[sub.orderKey]
	if !ok {
		s = &stream{
			status: status,
			subs:   make(map[*Subscription]struct{}),
		}
		b.streams[sub.orderKey] = s
	}
	if s.lastKnown == nil {
		s.lastKnown = lastKnown
	}
	s.subs[sub] = struct{}{}

	if b.gauge != nil {
		b.gauge.SubscriberConnected()
	}

	// The buffer is fresh, the init event cannot block.
	sub.events <- Event{Type: EventInit, OrderID: orderID, Status: s.status, Location: s.lastKnown}
	return sub
}

// Unsubscribe detaches the subscription and closes its channel. Safe to call
// after the broadcaster already closed the subscriber.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.streams[sub.orderKey]; ok {
		if _, attached := s.subs[sub]; attached {
			b.detach(s, sub)
			if len(s.subs) == 0 {
				delete(b.streams, sub.orderKey)
			}
			return
		}
	}

	if !sub.closed {
		close(sub.events)
		sub.closed = true
	}
}

// PublishStatus relays a status change to the order's subscribers.
func (b *Broadcaster) PublishStatus(orderID kernel.UUID, status order.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.streams[orderID.String()]
	if !ok {
		return
	}

	s.status = status
	b.fanOut(orderID.String(), s, Event{
		Type:     EventLocation,
		OrderID:  orderID,
		Status:   status,
		Location: s.lastKnown,
	})
}

// PublishLocation relays a courier position to the order's subscribers.
func (b *Broadcaster) PublishLocation(orderID kernel.UUID, location kernel.GeoPoint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.streams[orderID.String()]
	if !ok {
		return
	}

	s.lastKnown = &location
	b.fanOut(orderID.String(), s, Event{
		Type:     EventLocation,
		OrderID:  orderID,
		Status:   s.status,
		Location: &location,
	})
}

// Terminate sends complete to every subscriber of the order and closes the
// stream. The terminal status is remembered for completedRetention so a
// subscriber arriving with a stale status view still completes immediately.
func (b *Broadcaster) Terminate(orderID kernel.UUID, status order.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := orderID.String()
	b.completed[key] = completedOrder{status: status, at: time.Now()}

	s, ok := b.streams[key]
	if !ok {
		return
	}

	for sub := range s.subs {
		select {
		case sub.events <- Event{Type: EventComplete, OrderID: orderID, Status: status}:
		default:
		}
		b.detach(s, sub)
	}
	delete(b.streams, key)
}

// Close shuts the broadcaster down, closing every open subscription.
func (b *Broadcaster) Close() {
	b.stopOnce.Do(func() {
		close(b.done)
	})

	b.mu.Lock()
	defer b.mu.Unlock()

	for key, s := range b.streams {
		for sub := range s.subs {
			b.detach(s, sub)
		}
		delete(b.streams, key)
	}
}

// fanOut delivers the event to every subscriber of the stream, dropping
// subscribers whose buffers are full. Callers hold b.mu.
func (b *Broadcaster) fanOut(key string, s *stream, event Event) {
	for sub := range s.subs {
		select {
		case sub.events <- event:
		default:
			b.log.Warn("dropping slow tracking subscriber", "order_id", key)
			b.detach(s, sub)
		}
	}
	if len(s.subs) == 0 {
		delete(b.streams, key)
	}
}

// detach removes the subscriber and closes its channel. Callers hold b.mu.
func (b *Broadcaster) detach(s *stream, sub *Subscription) {
	delete(s.subs, sub)
	if !sub.closed {
		close(sub.events)
		sub.closed = true
	}
	if b.gauge != nil {
		b.gauge.SubscriberDisconnected()
	}
}

func (b *Broadcaster) keepaliveLoop() {
	ticker := time.NewTicker(b.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.mu.Lock()
			for key, s := range b.streams {
				b.fanOut(key, s, Event{Type: EventPing, Status: s.status})
			}
			cutoff := time.Now().Add(-completedRetention)
			for key, done := range b.completed {
				if done.at.Before(cutoff) {
					delete(b.completed, key)
				}
			}
			b.mu.Unlock()
		}
	}
}
