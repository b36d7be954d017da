package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sorajobs/admin-dashboard/internal/poller"
	"github.com/sorajobs/admin-dashboard/pkg/metrics"
)

// TriggerClient is what the poller service needs from the trigger client.
type TriggerClient interface {
	TriggerRun(ctx context.Context, limit int) (*poller.TriggerResult, error)
}

type PollerService struct {
	client       TriggerClient
	maxBatchSize int
	defaultBatch int
}

func NewPollerService(client TriggerClient, maxBatchSize, defaultBatch int) *PollerService {
	return &PollerService{
		client:       client,
		maxBatchSize: maxBatchSize,
		defaultBatch: defaultBatch,
	}
}

// Run asks the external poller to process one batch. A zero limit selects
// the configured default; anything outside [1, max] is rejected before the
// call goes out.
func (s *PollerService) Run(ctx context.Context, limit int) (*poller.TriggerResult, error) {
	if limit == 0 {
		limit = s.defaultBatch
	}
	if limit < 1 || limit > s.maxBatchSize {
		return nil, NewErrInvalidBatchSize(limit, s.maxBatchSize)
	}

	result, err := s.client.TriggerRun(ctx, limit)
	if err != nil {
		metrics.IncreasePollerTriggersTotalMetric("error")
		if errors.Is(err, poller.ErrNotConfigured) {
			return nil, NewErrPollerNotConfigured(err)
		}
		return nil, NewErrPollerUnavailable(err)
	}

	metrics.IncreasePollerTriggersTotalMetric("ok")
	zap.S().Named("poller_service").Infof("poller processed %d jobs and updated %d", result.Processed, result.Updated)
	return result, nil
}
