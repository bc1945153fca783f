// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_submissions_total",
			Help: "Total number of grading/approval submissions by kind and result",
		},
		[]string{"kind", "result"},
	)

	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_total",
			Help: "Total number of application status transitions by target status",
		},
		[]string{"to"},
	)

	NotifierFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workflow_notifier_failures_total",
			Help: "Total number of decision notifications that failed to send",
		},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "workflow_submission_duration_seconds",
			Help: "Duration of submission processing in seconds",
		},
		[]string{"kind"},
	)
)
