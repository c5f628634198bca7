// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_requests_started_total",
			Help: "Total number of generation requests accepted",
		},
	)

	GenerationsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_finished_total",
			Help: "Total number of generation requests reaching a terminal status",
		},
		[]string{"status", "error_code"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of end-to-end program generation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	GuardianIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_issues_total",
			Help: "Validation issues raised by the guardian, by type and severity",
		},
		[]string{"type", "severity"},
	)
)
