package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	jobsDashboard = "jobs_dashboard"

	// Poller metrics
	pollerTriggersTotal = "poller_triggers_total"

	// Job metrics
	JobStatusCount = "job_status_count"
	StuckJobsCount = "stuck_jobs_count"
	JobsTableCount = "jobs_table_count"

	// Labels
	jobStateLabel       = "state"
	pollerTriggersLabel = "result"
)

var jobStateCountLabels = []string{
	jobStateLabel,
}

var pollerTriggersTotalLabels = []string{
	pollerTriggersLabel,
}

/**
* Metrics definition
**/
var pollerTriggersTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobsDashboard,
		Name:      pollerTriggersTotal,
		Help:      "number of total one-shot poller triggers",
	},
	pollerTriggersTotalLabels,
)

var jobStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: jobsDashboard,
		Name:      JobStatusCount,
		Help:      "metrics to record the number of jobs in each canonical state",
	},
	jobStateCountLabels,
)

var stuckJobsCountMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: jobsDashboard,
		Name:      StuckJobsCount,
		Help:      "number of active jobs currently flagged as stuck",
	},
)

var jobsTableCountMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: jobsDashboard,
		Name:      JobsTableCount,
		Help:      "total number of rows in the jobs table",
	},
)

func IncreasePollerTriggersTotalMetric(result string) {
	labels := prometheus.Labels{
		pollerTriggersLabel: result,
	}
	pollerTriggersTotalMetric.With(labels).Inc()
}

func UpdateJobStateCountMetric(state string, count int) {
	labels := prometheus.Labels{
		jobStateLabel: state,
	}
	jobStatusCountMetric.With(labels).Set(float64(count))
}

func UpdateStuckJobsCountMetric(count int) {
	stuckJobsCountMetric.Set(float64(count))
}

func UpdateJobsTableCountMetric(count int64) {
	jobsTableCountMetric.Set(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(pollerTriggersTotalMetric)
	prometheus.MustRegister(jobStatusCountMetric)
	prometheus.MustRegister(stuckJobsCountMetric)
	prometheus.MustRegister(jobsTableCountMetric)
}
