// Package metrics holds the Prometheus collectors of the engine. Collectors
// register on the default registry; hosts expose them via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts execution requests by result: "completed",
	// "script_error" or "dropped" (trigger ignored while the lock was held).
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scriptcell",
		Name:      "runs_total",
		Help:      "Execution requests by result.",
	}, []string{"result"})

	// RunDuration observes wall time of accepted runs, lock acquisition to
	// release.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scriptcell",
		Name:      "run_duration_seconds",
		Help:      "Duration of accepted runs.",
		Buckets:   prometheus.DefBuckets,
	})

	// FeedbackTotal counts feedback submissions by backend and result.
	FeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scriptcell",
		Name:      "feedback_requests_total",
		Help:      "Feedback pipeline submissions by backend and result.",
	}, []string{"backend", "result"})
)
