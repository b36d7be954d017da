package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FallbackProvider is recorded for jobs whose provider column is absent.
const FallbackProvider = "fal"

// Job is a row of the jobs table. The table is owned by the external poller
// process; the dashboard only reads it. Every column besides id and
// created_at may legitimately be absent.
type Job struct {
	ID                  uuid.UUID `gorm:"primaryKey"`
	UserID              *string
	Status              *string
	Provider            *string
	ProviderStatus      *string
	ProviderError       *string
	QueuePosition       *int
	VideoURL            *string   `gorm:"column:video_url"`
	ProviderLastChecked *time.Time
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}

type JobList []Job

func (Job) TableName() string {
	return "jobs"
}

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// RawStatus returns the status column or the empty string when absent.
func (j Job) RawStatus() string {
	if j.Status == nil {
		return ""
	}
	return *j.Status
}

// ProviderOrFallback returns the provider column, defaulting when absent.
func (j Job) ProviderOrFallback() string {
	if j.Provider == nil || *j.Provider == "" {
		return FallbackProvider
	}
	return *j.Provider
}
