// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaysh_searches_total",
			Help: "Total number of searches by language and outcome",
		},
		[]string{"language", "outcome"},
	)

	ModelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaysh_model_requests_total",
			Help: "Total number of remote model requests by outcome",
		},
		[]string{"outcome"},
	)

	ModelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chaysh_model_request_duration_seconds",
			Help:    "Duration of remote model requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"outcome"},
	)

	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaysh_chat_requests_total",
			Help: "Total number of chat requests by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaysh_http_requests_total",
			Help: "HTTP requests served by route and status",
		},
		[]string{"route", "status"},
	)

	PageFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chaysh_page_fetches_total",
			Help: "Page fetches by outcome",
		},
		[]string{"outcome"},
	)
)
