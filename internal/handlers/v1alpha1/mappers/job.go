package mappers

import (
	"math"

	api "github.com/sorajobs/admin-dashboard/api/v1alpha1"
	"github.com/sorajobs/admin-dashboard/internal/service"
)

// JobToApi flattens a derived job into its wire form. Minutes are rounded
// to one decimal for display while the service keeps the exact value.
func JobToApi(job service.DerivedJob) api.Job {
	providerStatus := "n/a"
	if job.ProviderStatus != nil && *job.ProviderStatus != "" {
		providerStatus = *job.ProviderStatus
	}

	return api.Job{
		Id:                 job.ID,
		UserId:             job.UserID,
		RawStatus:          job.RawStatus(),
		Status:             string(job.CanonicalStatus),
		StatusDisplay:      job.StatusDisplay,
		Provider:           job.Provider,
		ProviderStatus:     providerStatus,
		ProviderError:      job.ProviderError,
		QueuePosition:      job.QueuePosition,
		VideoUrl:           job.VideoURL,
		MinutesSinceUpdate: math.Round(job.MinutesSinceUpdate*10) / 10,
		IsStuck:            job.IsStuck,
		CreatedAt:          job.CreatedAt,
		UpdatedAt:          job.UpdatedAt,
	}
}

func JobListToApi(jobs []service.DerivedJob) api.JobList {
	out := make([]api.Job, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, JobToApi(job))
	}
	return api.JobList{Jobs: out, Total: len(out)}
}

func SummaryToApi(summary *service.Summary) api.JobSummary {
	byStatus := make(map[string]int, len(summary.ByStatus))
	for state, count := range summary.ByStatus {
		byStatus[string(state)] = count
	}
	return api.JobSummary{
		Total:      summary.Total,
		ByStatus:   byStatus,
		ByProvider: summary.ByProvider,
		Stuck:      summary.Stuck,
	}
}

func ActivityToApi(buckets []service.ActivityBucket) api.ActivityList {
	out := make([]api.ActivityBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, api.ActivityBucket{Bucket: b.Bucket, Provider: b.Provider, Jobs: b.Jobs})
	}
	return api.ActivityList{Buckets: out}
}
