package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route template and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niuniq_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "niuniq_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// ListQueries counts filtered list queries per resource.
	ListQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niuniq_list_queries_total",
			Help: "Total number of filtered list queries",
		},
		[]string{"resource"},
	)
	SearchCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niuniq_search_cache_total",
			Help: "Product search cache lookups by result",
		},
		[]string{"result"},
	)
	// MarketplaceEvents counts store and product lifecycle events.
	MarketplaceEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niuniq_marketplace_events_total",
			Help: "Store and product lifecycle events by name",
		},
		[]string{"event"},
	)
	QRCodesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "niuniq_qrcodes_generated_total",
			Help: "Total number of product QR codes generated",
		},
	)
)
