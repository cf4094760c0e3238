// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes Prometheus instrumentation for the portal API:
// request throughput and latency, plus gatekeeper outcomes (rate limit
// rejections per policy, authentication failures, directory outages).
//
// Directory outages get their own counter so an infrastructure incident is
// visible separately from a wave of bad credentials.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Gatekeeper metrics
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_rejections_total",
			Help: "Requests rejected by the rate limiter, per policy",
		},
		[]string{"policy"},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Authentication and authorization rejections",
		},
		[]string{"kind"}, // "unauthorized", "forbidden"
	)

	DirectoryOutages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "user_directory_outages_total",
			Help: "User directory lookups that failed for infrastructure reasons",
		},
	)

	// Database metrics
	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of database query errors",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitRejection counts a 429 under the named policy.
func RecordRateLimitRejection(policy string) {
	RateLimitRejections.WithLabelValues(policy).Inc()
}

// RecordAuthFailure counts a 401 ("unauthorized") or 403 ("forbidden").
func RecordAuthFailure(kind string) {
	AuthFailures.WithLabelValues(kind).Inc()
}

// RecordDirectoryOutage counts a failed user directory lookup.
func RecordDirectoryOutage() {
	DirectoryOutages.Inc()
}
