package workflow

import (
	"context"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type stuckWorkflowReaperSrv struct {
	workflows  port.WorkflowRepository
	assets     port.AssetRepository
	stats      port.StatsCache
	notifier   port.Notifier
	stuckAfter time.Duration
	now        func() time.Time
}

// compile-time check: *stuckWorkflowReaperSrv must satisfy port.StuckWorkflowReaper
var _ port.StuckWorkflowReaper = (*stuckWorkflowReaperSrv)(nil)

func NewStuckWorkflowReaper(
	workflows port.WorkflowRepository,
	assets port.AssetRepository,
	stats port.StatsCache,
	n port.Notifier,
	stuckAfter time.Duration,
) port.StuckWorkflowReaper {
	return &stuckWorkflowReaperSrv{
		workflows:  workflows,
		assets:     assets,
		stats:      stats,
		notifier:   n,
		stuckAfter: stuckAfter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ReapStuckWorkflows fails every workflow that has been pending for longer
// than the configured threshold and returns how many were failed.
// A workflow that moved on between listing and failing is left alone.
func (s *stuckWorkflowReaperSrv) ReapStuckWorkflows(ctx context.Context) (int, error) {
	now := s.now()
	stuck, err := s.workflows.ListPendingBefore(ctx, now.Add(-s.stuckAfter))
	if err != nil {
		return 0, err
	}
	if len(stuck) == 0 {
		logger.Info(ctx, "no stuck workflows found")
		return 0, nil
	}

	reaped := 0
	for _, wf := range stuck {
		failed, err := s.workflows.FailIfPending(ctx, wf.ID, ErrTextStuck, now)
		if err != nil {
			logger.Warnf(ctx, "failed to reap workflow #%s: %v", wf.ID, err)
			continue
		}
		if !failed {
			continue
		}
		reaped++
		logger.Infof(ctx, "reaped workflow #%s, pending since %s", wf.ID, wf.StartedAt.Format(time.RFC3339))

		if wf.AssetID != nil {
			if err := s.assets.UpdateStatus(ctx, *wf.AssetID, model.AssetStatusFailed, nil); err != nil {
				logger.Errorf(ctx, "failed to mark asset #%s as failed: %v", *wf.AssetID, err)
			} else {
				invalidateStats(ctx, s.stats)
			}
		}
		announceCompletion(ctx, s.notifier, wf.ID, model.WorkflowStatusFailed, wf.AssetID)
	}
	return reaped, nil
}
