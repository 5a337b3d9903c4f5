package payments

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_intents_created_total",
		Help: "Payment intents created against the card gateway",
	})

	refundsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_refunds_created_total",
		Help: "Refunds created against the card gateway",
	})

	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhook_events_total",
		Help: "Webhook deliveries by event type and outcome",
	}, []string{"type", "outcome"})
)
