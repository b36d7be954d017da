package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrJobNotFound struct {
	error
}

func NewErrJobNotFound(id uuid.UUID) *ErrJobNotFound {
	return &ErrJobNotFound{fmt.Errorf("job %s not found", id)}
}

type ErrInvalidBatchSize struct {
	error
}

func NewErrInvalidBatchSize(limit, max int) *ErrInvalidBatchSize {
	return &ErrInvalidBatchSize{fmt.Errorf("batch size %d is out of range [1, %d]", limit, max)}
}

type ErrPollerNotConfigured struct {
	error
}

func NewErrPollerNotConfigured(cause error) *ErrPollerNotConfigured {
	return &ErrPollerNotConfigured{cause}
}

type ErrPollerUnavailable struct {
	error
}

func NewErrPollerUnavailable(cause error) *ErrPollerUnavailable {
	return &ErrPollerUnavailable{fmt.Errorf("poller unavailable: %s", cause)}
}

type ErrInvalidJobTimestamps struct {
	error
}

func NewErrInvalidJobTimestamps(id uuid.UUID, cause error) *ErrInvalidJobTimestamps {
	return &ErrInvalidJobTimestamps{fmt.Errorf("job %s has timestamps that cannot be compared: %s", id, cause)}
}
