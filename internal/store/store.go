package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	InitialMigration(ctx context.Context) error
	Close() error
}

type DataStore struct {
	db  *gorm.DB
	job Job
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:  db,
		job: NewJobStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) InitialMigration(ctx context.Context) error {
	return s.job.InitialMigration(ctx)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
