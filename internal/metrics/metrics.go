package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPResponseSize      prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Database metrics
	DatabaseQueryDuration prometheus.HistogramVec
	DatabaseQueriesTotal  prometheus.CounterVec

	// Proposal write metrics (server side)
	ProposalsCreatedTotal prometheus.CounterVec
	VotesRecordedTotal    prometheus.CounterVec
	CommentsAddedTotal    prometheus.Counter
	UploadsTotal          prometheus.CounterVec

	// Feed client metrics
	FeedFetchDuration   prometheus.HistogramVec
	FeedFetchSuperseded prometheus.Counter
	FeedMutationsTotal  prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPResponseSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			DatabaseQueryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "database_query_duration_seconds",
					Help:    "Database query latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"operation"},
			),
			DatabaseQueriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "database_queries_total",
					Help: "Total number of database queries",
				},
				[]string{"operation", "status"},
			),

			ProposalsCreatedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "proposals_created_total",
					Help: "Proposals created, by author species",
				},
				[]string{"species"},
			),
			VotesRecordedTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "votes_recorded_total",
					Help: "Votes cast or retracted",
				},
				[]string{"choice"},
			),
			CommentsAddedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "comments_added_total",
					Help: "Comments appended to proposals",
				},
			),
			UploadsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "media_uploads_total",
					Help: "Media uploads by kind and status",
				},
				[]string{"kind", "status"},
			),

			FeedFetchDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_fetch_duration_seconds",
					Help:    "Time to fetch a feed page from the backend",
					Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"mode", "outcome"},
			),
			FeedFetchSuperseded: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_fetch_superseded_total",
					Help: "Fetch results discarded because a newer request was issued",
				},
			),
			FeedMutationsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_mutations_total",
					Help: "Optimistic mutations by kind and outcome",
				},
				[]string{"kind", "outcome"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it on first use
func Get() *Metrics {
	return Initialize()
}
