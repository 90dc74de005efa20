package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextgen_tasks_completed_total",
			Help: "Total number of tasks processed successfully",
		},
		[]string{"task_name"},
	)

	TasksFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextgen_tasks_failed_total",
			Help: "Total number of tasks that ended in a classified error",
		},
		[]string{"task_name", "error_kind"},
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nextgen_task_duration_seconds",
			Help: "Duration of processor calls in seconds",
		},
		[]string{"task_name"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextgen_validation_failures_total",
			Help: "Total number of payload validation violations by field path",
		},
		[]string{"field_path"},
	)
)
