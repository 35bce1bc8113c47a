package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mufti_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mufti_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Chat metrics
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mufti_chat_turns_total",
			Help: "Chat turns started, by mode",
		},
		[]string{"mode"}, // "persistent" or "stateless"
	)

	StreamFragmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mufti_stream_fragments_total",
			Help: "Non-empty fragments relayed to callers",
		},
	)

	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mufti_upstream_errors_total",
			Help: "Completion API failures",
		},
		[]string{"call"}, // "stream" or "title"
	)

	TitlesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mufti_titles_generated_total",
			Help: "Chat titles generated, by strategy",
		},
		[]string{"source"}, // "ai" or "heuristic"
	)

	// Infrastructure metrics
	PostgresLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mufti_postgres_latency_seconds",
			Help:    "PostgreSQL operation latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"op"},
	)
)

// ObservePostgres records the latency of a store operation started at start.
// Intended for use with defer.
func ObservePostgres(op string, start time.Time) {
	PostgresLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
