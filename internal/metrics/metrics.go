package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connect_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ProfilesRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_profiles_registered_total",
			Help: "Total profiles registered",
		},
		[]string{"role"}, // "member" or "creator"
	)

	FollowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_follows_total",
			Help: "Total follow connections created",
		},
	)

	UnfollowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_unfollows_total",
			Help: "Total follow connections removed",
		},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "connect_messages_sent_total",
			Help: "Total direct messages sent",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connect_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
