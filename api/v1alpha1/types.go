// Package v1alpha1 holds the wire types served by the dashboard API.
package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// Job is the outward view of a pipeline job, enriched with the derived
// canonical status and staleness fields.
type Job struct {
	Id                 uuid.UUID  `json:"id"`
	UserId             *string    `json:"user_id,omitempty"`
	RawStatus          string     `json:"raw_status"`
	Status             string     `json:"status"`
	StatusDisplay      string     `json:"status_display"`
	Provider           string     `json:"provider"`
	ProviderStatus     string     `json:"provider_status"`
	ProviderError      *string    `json:"provider_error,omitempty"`
	QueuePosition      *int       `json:"queue_position,omitempty"`
	VideoUrl           *string    `json:"video_url,omitempty"`
	MinutesSinceUpdate float64    `json:"minutes_since_update"`
	IsStuck            bool       `json:"is_stuck"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// JobList is the response of the job listing endpoints.
type JobList struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}

// JobSummary carries the aggregate tiles shown at the top of the dashboard.
type JobSummary struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByProvider map[string]int `json:"by_provider"`
	Stuck      int            `json:"stuck"`
}

// ActivityBucket is one point of the submission activity series.
type ActivityBucket struct {
	Bucket   time.Time `json:"bucket"`
	Provider string    `json:"provider"`
	Jobs     int       `json:"jobs"`
}

// ActivityList is the response of the activity endpoint.
type ActivityList struct {
	Buckets []ActivityBucket `json:"buckets"`
}

// PollerRunResult reports what the poller did for a triggered run.
type PollerRunResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}

// Health is the liveness response.
type Health struct {
	Status string `json:"status"`
}

// Error is the common error body. RequestId correlates the response with
// the server logs.
type Error struct {
	Message   string `json:"message"`
	RequestId string `json:"request_id,omitempty"`
}
