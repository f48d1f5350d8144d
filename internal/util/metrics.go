package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Total number of admin login attempts",
	}, []string{"outcome"})

	CheckoutSessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of hosted checkout sessions created",
	})

	CheckoutsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_rejected_total",
		Help: "Total number of checkout requests rejected before session creation",
	}, []string{"reason"})

	CheckoutSessionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_session_latency_seconds",
		Help:    "Latency of checkout session creation against the payment processor",
		Buckets: prometheus.DefBuckets,
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Total number of verified webhook events received, by type",
	}, []string{"type"})

	WebhookSignatureFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webhook_signature_failures_total",
		Help: "Total number of webhook deliveries rejected for a bad signature",
	})

	DuplicateEventsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "duplicate_events_skipped_total",
		Help: "Total number of redelivered webhook events skipped by the ledger",
	})

	FulfillmentsAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillments_applied_total",
		Help: "Total number of completed checkouts applied to inventory",
	})

	FulfillmentUnknownColorTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_unknown_color_total",
		Help: "Total number of fulfillment items skipped for an unknown color",
	})

	FulfillmentShortfallTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_shortfall_total",
		Help: "Total number of fulfillment items that deducted less than purchased",
	})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of order notification emails sent",
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of order notification emails that failed to send",
	})

	StockLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stock_level",
		Help: "Current stock count per color",
	}, []string{"color"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
