package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	ContactMessagesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "contact_messages_created_total", Help: "Number of stored contact-form messages."},
	)
	SiteVisitsTracked = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "site_visits_tracked_total", Help: "Number of recorded page visits."},
	)
)

// RegisterCollectors registers every collector of this package on reg.
func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPRequestDuration)
	reg.MustRegister(ContactMessagesCreated)
	reg.MustRegister(SiteVisitsTracked)
}
