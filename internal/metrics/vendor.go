package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	vendorRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_requests_total",
			Help: "Total number of outbound requests to security vendors",
		},
		[]string{"vendor", "operation", "status"},
	)

	vendorRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vendor_request_duration_seconds",
			Help:    "Outbound security vendor request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"vendor", "operation"},
	)

	tokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_token_refreshes_total",
			Help: "Total number of bearer token refreshes by outcome",
		},
		[]string{"vendor", "outcome"},
	)
)

// ObserveVendorRequest records one outbound call. status is the HTTP status,
// or 0 when the request never got a response.
func ObserveVendorRequest(vendor, operation string, status int, started time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	vendorRequestsTotal.WithLabelValues(vendor, operation, label).Inc()
	vendorRequestDuration.WithLabelValues(vendor, operation).Observe(time.Since(started).Seconds())
}

// ObserveTokenRefresh counts a token refresh attempt.
func ObserveTokenRefresh(vendor string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	tokenRefreshesTotal.WithLabelValues(vendor, outcome).Inc()
}
