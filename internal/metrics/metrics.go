package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Feed metrics
	FeedRequestsTotal  *prometheus.CounterVec
	FeedFallbacksTotal *prometheus.CounterVec
	FeedGenerationTime *prometheus.HistogramVec

	// Interaction recording metrics
	InteractionsRecordedTotal *prometheus.CounterVec
	InteractionsRejectedTotal *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the metrics singleton, registering all collectors on first use
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			FeedRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_requests_total",
					Help: "Feed pages served, labeled by serving mode",
				},
				[]string{"mode"},
			),
			FeedFallbacksTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_fallbacks_total",
					Help: "Personalization attempts that degraded to trending, by reason",
				},
				[]string{"reason"},
			),
			FeedGenerationTime: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_seconds",
					Help:    "Time to produce a feed page",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"mode"},
			),
			InteractionsRecordedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interactions_recorded_total",
					Help: "Interaction facts appended, by type",
				},
				[]string{"type"},
			),
			InteractionsRejectedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interactions_rejected_total",
					Help: "Interaction recording attempts rejected at validation",
				},
				[]string{"reason"},
			),
			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Requests rejected by the rate limiter",
				},
				[]string{"endpoint", "method"},
			),
		}
	})
	return instance
}
