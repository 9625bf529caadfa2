package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledgerrun",
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Completed job runs.",
	}, []string{"job"})

	entitiesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledgerrun",
		Subsystem: "jobs",
		Name:      "entities_processed_total",
		Help:      "Entities processed successfully.",
	}, []string{"job"})

	entitiesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledgerrun",
		Subsystem: "jobs",
		Name:      "entities_failed_total",
		Help:      "Entities whose atomic write failed.",
	}, []string{"job"})

	entitiesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledgerrun",
		Subsystem: "jobs",
		Name:      "entities_skipped_total",
		Help:      "Entities skipped for missing linkage or zero deltas.",
	}, []string{"job"})
)

func observeRun(s Summary) {
	runsTotal.WithLabelValues(s.Job).Inc()
	entitiesProcessed.WithLabelValues(s.Job).Add(float64(s.Processed))
	entitiesFailed.WithLabelValues(s.Job).Add(float64(s.Failed))
	entitiesSkipped.WithLabelValues(s.Job).Add(float64(s.Skipped))
}
