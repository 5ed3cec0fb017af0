package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeai_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridgeai_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Transfer metrics
	TransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeai_transfers_total",
			Help: "Transfers started from a source tab, by outcome",
		},
		[]string{"outcome"}, // saved, no_messages, unknown_platform, storage_failure, open_failed
	)

	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeai_deliveries_total",
			Help: "Destination readiness checks, by outcome",
		},
		[]string{"outcome"}, // delivered, no_payload, mismatch, timeout, clipboard_failure, storage_failure
	)

	PayloadsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bridgeai_payloads_expired_total",
			Help: "Payloads removed by the expiry sweep",
		},
	)

	TabsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridgeai_tabs_opened_total",
			Help: "Destination tabs opened, by platform",
		},
		[]string{"platform"},
	)
)
