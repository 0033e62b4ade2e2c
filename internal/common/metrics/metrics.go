// internal/common/metrics/metrics.go
// Package metrics holds the Prometheus collectors shared by the job
// workers and the rule set cache. Everything is registered through
// promauto at init and scraped from the health server's /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Jobs completed per task type",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Jobs failed per task type, labelled with the mapped error code",
		},
		[]string{"task_type", "error_code"},
	)

	// Rule extraction jobs fetch and parse a source page and may wait on
	// the assistant, so the upper buckets run well past a minute.
	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Job handling duration per task type",
			Buckets: []float64{0.05, 0.25, 1, 5, 15, 30, 60, 120},
		},
		[]string{"task_type"},
	)

	RuleSetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ruleset_cache_hits_total",
			Help: "Rule set reads served from Redis",
		},
	)

	RuleSetCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ruleset_cache_misses_total",
			Help: "Rule set reads that fell through to the backing store",
		},
	)
)
