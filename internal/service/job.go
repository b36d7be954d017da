package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/sorajobs/admin-dashboard/internal/status"
	"github.com/sorajobs/admin-dashboard/internal/store"
	"github.com/sorajobs/admin-dashboard/internal/store/model"
)

// DerivedJob is the per-read projection of a job row: the row itself plus
// everything the dashboard derives from it. It is rebuilt on every fetch
// and never written back.
type DerivedJob struct {
	model.Job
	Provider           string
	CanonicalStatus    status.Canonical
	StatusDisplay      string
	LastTouchedAt      time.Time
	MinutesSinceUpdate float64
	IsStuck            bool
}

// JobFilter narrows a listing. Zero values mean "no filter"; Limit falls
// back to the service default and is capped at the service maximum.
type JobFilter struct {
	Provider        string
	UserID          string
	CanonicalStatus status.Canonical
	Limit           int
}

// Summary is the metric-tile payload of the dashboard: totals per state
// over the inspected window.
type Summary struct {
	Total      int
	ByStatus   map[status.Canonical]int
	ByProvider map[string]int
	Stuck      int
}

// ActivityBucket counts jobs touched within one fixed time window,
// per provider.
type ActivityBucket struct {
	Bucket   time.Time
	Provider string
	Jobs     int
}

type JobService struct {
	store          store.Store
	defaultLimit   int
	maxLimit       int
	stuckThreshold time.Duration
	nowFunc        func() time.Time
}

type JobServiceOption func(*JobService)

// WithNowFunc overrides the evaluation clock. Tests use it to pin "now".
func WithNowFunc(now func() time.Time) JobServiceOption {
	return func(s *JobService) {
		s.nowFunc = now
	}
}

func NewJobService(store store.Store, defaultLimit, maxLimit int, stuckThreshold time.Duration, opts ...JobServiceOption) *JobService {
	if stuckThreshold <= 0 {
		stuckThreshold = status.DefaultStuckThreshold
	}
	s := &JobService{
		store:          store,
		defaultLimit:   defaultLimit,
		maxLimit:       maxLimit,
		stuckThreshold: stuckThreshold,
		nowFunc:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListJobs returns the most recent jobs with their derived fields, newest
// first. The canonical-status filter applies after derivation since the
// store only knows raw statuses.
func (s *JobService) ListJobs(ctx context.Context, filter JobFilter) ([]DerivedJob, error) {
	storeFilter := store.NewJobQueryFilter()
	if filter.Provider != "" {
		storeFilter = storeFilter.ByProvider(filter.Provider)
	}
	if filter.UserID != "" {
		storeFilter = storeFilter.ByUserID(filter.UserID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	jobs, err := s.store.Job().List(ctx, storeFilter,
		store.NewJobQueryOptions().WithSortOrder(store.SortByCreatedTimeDesc).WithLimit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "listing jobs")
	}

	now := s.nowFunc()
	derived := make([]DerivedJob, 0, len(jobs))
	for _, job := range jobs {
		d, err := s.derive(job, now)
		if err != nil {
			return nil, err
		}
		if filter.CanonicalStatus != "" && d.CanonicalStatus != filter.CanonicalStatus {
			continue
		}
		derived = append(derived, d)
	}
	return derived, nil
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*DerivedJob, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, errors.Wrap(err, "getting job")
	}

	d, err := s.derive(*job, s.nowFunc())
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Summary aggregates the same window ListJobs inspects.
func (s *JobService) Summary(ctx context.Context, filter JobFilter) (*Summary, error) {
	jobs, err := s.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Total:      len(jobs),
		ByStatus:   make(map[status.Canonical]int),
		ByProvider: make(map[string]int),
	}
	for _, job := range jobs {
		summary.ByStatus[job.CanonicalStatus]++
		summary.ByProvider[job.Provider]++
		if job.IsStuck {
			summary.Stuck++
		}
	}
	return summary, nil
}

// StuckJobs returns only the flagged jobs, oldest-untouched first.
func (s *JobService) StuckJobs(ctx context.Context, filter JobFilter) ([]DerivedJob, error) {
	jobs, err := s.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	stuck := make([]DerivedJob, 0)
	for _, job := range jobs {
		if job.IsStuck {
			stuck = append(stuck, job)
		}
	}
	sort.Slice(stuck, func(i, j int) bool {
		return stuck[i].MinutesSinceUpdate > stuck[j].MinutesSinceUpdate
	})
	return stuck, nil
}

// Activity buckets jobs by last touch into fixed windows per provider,
// oldest bucket first.
func (s *JobService) Activity(ctx context.Context, bucket time.Duration, filter JobFilter) ([]ActivityBucket, error) {
	if bucket <= 0 {
		bucket = 15 * time.Minute
	}

	jobs, err := s.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	type key struct {
		bucket   time.Time
		provider string
	}
	counts := make(map[key]int)
	for _, job := range jobs {
		counts[key{job.LastTouchedAt.Truncate(bucket), job.Provider}]++
	}

	buckets := make([]ActivityBucket, 0, len(counts))
	for k, n := range counts {
		buckets = append(buckets, ActivityBucket{Bucket: k.bucket, Provider: k.provider, Jobs: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Bucket.Equal(buckets[j].Bucket) {
			return buckets[i].Provider < buckets[j].Provider
		}
		return buckets[i].Bucket.Before(buckets[j].Bucket)
	})
	return buckets, nil
}

// CountJobs returns the full table size, regardless of the listing window.
func (s *JobService) CountJobs(ctx context.Context) (int64, error) {
	count, err := s.store.Job().Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "counting jobs")
	}
	return count, nil
}

// StuckThreshold exposes the configured threshold for presentation.
func (s *JobService) StuckThreshold() time.Duration {
	return s.stuckThreshold
}

func (s *JobService) derive(job model.Job, now time.Time) (DerivedJob, error) {
	canonical := status.Canonicalize(job.RawStatus())
	lastTouched := status.LastTouched(job.CreatedAt, job.UpdatedAt)

	minutes, err := status.MinutesSince(lastTouched, now)
	if err != nil {
		return DerivedJob{}, NewErrInvalidJobTimestamps(job.ID, err)
	}
	stuck, err := status.IsStuck(canonical, lastTouched, now, s.stuckThreshold)
	if err != nil {
		return DerivedJob{}, NewErrInvalidJobTimestamps(job.ID, err)
	}

	return DerivedJob{
		Job:                job,
		Provider:           job.ProviderOrFallback(),
		CanonicalStatus:    canonical,
		StatusDisplay:      canonical.Display(),
		LastTouchedAt:      lastTouched,
		MinutesSinceUpdate: minutes,
		IsStuck:            stuck,
	}, nil
}
