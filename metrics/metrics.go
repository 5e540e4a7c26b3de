package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propops",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests broken down by route, method and status.",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "propops",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	conflictChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propops",
		Subsystem: "calendar",
		Name:      "conflict_checks_total",
		Help:      "Total number of conflict checks broken down by result.",
	}, []string{"result"})

	jobTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propops",
		Subsystem: "jobs",
		Name:      "transitions_total",
		Help:      "Total number of job status transitions broken down by from/to and result.",
	}, []string{"from", "to", "result"})

	aiDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propops",
		Subsystem: "aicoo",
		Name:      "decisions_total",
		Help:      "Total number of AI COO decisions broken down by outcome and rationale source.",
	}, []string{"outcome", "source"})

	aiCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propops",
		Subsystem: "aicoo",
		Name:      "cache_requests_total",
		Help:      "AI decision cache lookups broken down by hit/miss.",
	}, []string{"result"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propops",
		Subsystem: "notifications",
		Name:      "dispatched_total",
		Help:      "Notifications dispatched broken down by channel and result.",
	}, []string{"channel", "result"})
)

func RecordRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func RecordConflictCheck(conflict bool) {
	result := "clear"
	if conflict {
		result = "conflict"
	}
	conflictChecks.WithLabelValues(result).Inc()
}

func RecordJobTransition(from, to string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	jobTransitions.WithLabelValues(from, to, result).Inc()
}

func RecordDecision(outcome, source string) {
	aiDecisions.WithLabelValues(outcome, source).Inc()
}

func RecordCacheRequest(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	aiCache.WithLabelValues(result).Inc()
}

func RecordNotification(channel string, sent bool) {
	result := "failed"
	if sent {
		result = "sent"
	}
	notifications.WithLabelValues(channel, result).Inc()
}
