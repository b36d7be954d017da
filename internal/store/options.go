package store

import (
	"gorm.io/gorm"
)

type SortOrder int

const (
	Unsorted SortOrder = iota
	SortByCreatedTime
	SortByCreatedTimeDesc
	SortByUpdatedTime
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *JobQueryFilter) ByProvider(provider string) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("provider = ?", provider)
	})
	return qf
}

func (qf *JobQueryFilter) ByUserID(userID string) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	})
	return qf
}

type JobQueryOptions BaseQuerier

func NewJobQueryOptions() *JobQueryOptions {
	return &JobQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *JobQueryOptions) WithLimit(limit int) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		return tx.Limit(limit)
	})
	return o
}

func (o *JobQueryOptions) WithSortOrder(sort SortOrder) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByCreatedTime:
			return tx.Order("created_at")
		case SortByCreatedTimeDesc:
			return tx.Order("created_at DESC")
		case SortByUpdatedTime:
			return tx.Order("updated_at")
		default:
			return tx
		}
	})
	return o
}
