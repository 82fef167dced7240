// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsAcceptedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_transitions_accepted_total",
		Help: "Total number of accepted order status transitions.",
	},
		[]string{"target"},
	)

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_transitions_rejected_total",
		Help: "Total number of rejected order status transitions.",
	},
		[]string{"reason"},
	)

	TrackingSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fulfillment_tracking_subscribers",
		Help: "Current number of live tracking stream subscribers.",
	})
)

// Recorder adapts the collectors to the narrow interfaces the command
// handlers and the tracking broadcaster accept.
type Recorder struct{}

func (Recorder) TransitionAccepted(target string) {
	TransitionsAcceptedTotal.WithLabelValues(target).Inc()
}

func (Recorder) TransitionRejected(reason string) {
	TransitionsRejectedTotal.WithLabelValues(reason).Inc()
}

func (Recorder) SubscriberConnected() {
	TrackingSubscribers.Inc()
}

func (Recorder) SubscriberDisconnected() {
	TrackingSubscribers.Dec()
}
