package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sorajobs/admin-dashboard/internal/store/model"
)

type Job interface {
	List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.JobList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Count(ctx context.Context) (int64, error)
	InitialMigration(ctx context.Context) error
}

type JobStore struct {
	db *gorm.DB
}

var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Job{})
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.JobList, error) {
	var jobs model.JobList
	tx := s.getDB(ctx).Model(&jobs)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&jobs); result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job := model.Job{ID: id}
	result := s.getDB(ctx).First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if result := s.getDB(ctx).Model(&model.Job{}).Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
