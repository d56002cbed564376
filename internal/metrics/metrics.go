package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stepform_webhook_deliveries_total",
			Help: "Webhook queue outcomes per processed item",
		},
		[]string{"outcome"}, // sent|retrying|failed|skipped
	)

	QueuePasses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stepform_webhook_queue_passes_total",
			Help: "Completed webhook queue processor passes",
		},
	)

	LeadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stepform_leads_total",
			Help: "Accepted lead submissions by source",
		},
		[]string{"source"}, // stepform|inbound
	)
)

var registerOnce sync.Once

// MustRegister registers the collectors once; later calls are no-ops so the
// api and the in-process scheduler can both call it.
func MustRegister(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(
			WebhookDeliveries,
			QueuePasses,
			LeadsTotal,
		)
	})
}
