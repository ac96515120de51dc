// Package metrics holds the domain collectors exposed next to the HTTP metrics at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookDeliveries counts delivery attempts by outcome
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landing",
		Name:      "webhook_deliveries_total",
		Help:      "Webhook delivery attempts by outcome.",
	}, []string{"outcome"})

	// WebhookDuration observes the wall time of delivery attempts
	WebhookDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "landing",
		Name:      "webhook_delivery_seconds",
		Help:      "Webhook delivery attempt duration.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	// LeadsSubmitted counts accepted lead submissions by device class
	LeadsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landing",
		Name:      "leads_submitted_total",
		Help:      "Accepted lead submissions.",
	}, []string{"device"})

	// BusHandlerPanics counts recovered subscriber panics
	BusHandlerPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "landing",
		Name:      "bus_handler_panics_total",
		Help:      "Change notification subscribers that panicked.",
	}, []string{"topic"})
)
