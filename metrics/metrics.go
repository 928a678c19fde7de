// Package metrics provides Prometheus metrics for HTTP server monitoring and
// the terminology engine:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - terminology_searches_total: Counter with endpoint label
//   - icd_gateway_requests_total: Counter with operation and outcome labels
//   - icd_token_refreshes_total: Counter of client-credential grants
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terminology_searches_total",
			Help: "Terminology searches served, by endpoint",
		},
		[]string{"endpoint"},
	)

	ICDGatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "icd_gateway_requests_total",
			Help: "WHO ICD-11 gateway requests, by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ICDTokenRefreshes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "icd_token_refreshes_total",
			Help: "WHO ICD-11 client-credential token grants",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(ICDGatewayRequests)
	prometheus.MustRegister(ICDTokenRefreshes)
}
