package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Enrollment metrics
	Signups = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mergington_signups_total",
			Help: "Total number of successful activity signups",
		},
	)

	Unregistrations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mergington_unregistrations_total",
			Help: "Total number of successful activity unregistrations",
		},
	)

	SignupRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergington_signup_rejections_total",
			Help: "Signup attempts rejected by the registry",
		},
		[]string{"reason"},
	)

	UnregisterRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergington_unregister_rejections_total",
			Help: "Unregister attempts rejected by the registry",
		},
		[]string{"reason"},
	)

	ActivityRosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mergington_activity_roster_size",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mergington_http_requests_total",
			Help: "Total HTTP requests by method, route, and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mergington_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mergington_rate_limit_exceeded_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
