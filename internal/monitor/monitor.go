// Package monitor refreshes the pipeline gauges in the background so the
// metrics endpoint reflects the current queue state between API calls.
package monitor

import (
	"context"
	"time"

	jitterbug "github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/sorajobs/admin-dashboard/internal/service"
	"github.com/sorajobs/admin-dashboard/internal/status"
	"github.com/sorajobs/admin-dashboard/pkg/metrics"
)

type JobSummarizer interface {
	Summary(ctx context.Context, filter service.JobFilter) (*service.Summary, error)
	CountJobs(ctx context.Context) (int64, error)
}

type Monitor struct {
	jobs     JobSummarizer
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewMonitor(jobs JobSummarizer, interval time.Duration) *Monitor {
	return &Monitor{
		jobs:     jobs,
		interval: interval,
		log:      zap.S().Named("monitor"),
	}
}

// Run ticks until the context is cancelled. The ticker is jittered so
// several replicas do not hit the database in lockstep.
func (m *Monitor) Run(ctx context.Context) {
	ticker := jitterbug.New(m.interval, &jitterbug.Norm{Stdev: 250 * time.Millisecond})
	defer ticker.Stop()

	m.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitor stopped")
			return
		case <-ticker.C:
			m.refresh(ctx)
		}
	}
}

func (m *Monitor) refresh(ctx context.Context) {
	summary, err := m.jobs.Summary(ctx, service.JobFilter{})
	if err != nil {
		m.log.Errorw("failed to refresh job gauges", "error", err)
		return
	}

	for _, state := range status.All() {
		metrics.UpdateJobStateCountMetric(string(state), summary.ByStatus[state])
	}
	metrics.UpdateStuckJobsCountMetric(summary.Stuck)

	count, err := m.jobs.CountJobs(ctx)
	if err != nil {
		m.log.Errorw("failed to count jobs", "error", err)
		return
	}
	metrics.UpdateJobsTableCountMetric(count)
}
