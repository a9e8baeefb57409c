package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

// WorkflowTypeSchedule is the workflow type run when a scheduled asset comes due.
const WorkflowTypeSchedule = "schedule"

type assetSchedulerSrv struct {
	repo     port.AssetRepository
	tasks    port.TaskDispatcher
	stats    port.StatsCache
	notifier port.Notifier
	now      func() time.Time
}

// compile-time check: *assetSchedulerSrv must satisfy port.AssetScheduler
var _ port.AssetScheduler = (*assetSchedulerSrv)(nil)

func NewAssetScheduler(repo port.AssetRepository, tasks port.TaskDispatcher, stats port.StatsCache, n port.Notifier) port.AssetScheduler {
	return &assetSchedulerSrv{
		repo:     repo,
		tasks:    tasks,
		stats:    stats,
		notifier: n,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ScheduleAsset queues the asset and enqueues a task that triggers a
// "schedule" workflow at in.ScheduledAt. The asset is only marked queued once
// the task has been accepted.
func (s *assetSchedulerSrv) ScheduleAsset(ctx context.Context, in port.ScheduleAssetInput) (*model.Asset, error) {
	if in.ScheduledAt.IsZero() {
		return nil, ErrMissingScheduleAt
	}

	a, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	at := in.ScheduledAt.UTC()
	if err := s.tasks.EnqueueScheduledWorkflow(ctx, port.ScheduledWorkflow{
		AssetID:      a.ID,
		WorkflowType: WorkflowTypeSchedule,
		Payload:      in.Payload,
	}, at); err != nil {
		return nil, fmt.Errorf("enqueue scheduled workflow for asset #%s: %w", a.ID, err)
	}
	logger.Infof(ctx, "asset %s (#%s) scheduled for %s", a.Serial, a.ID, at.Format(time.RFC3339))

	a.Status = model.AssetStatusQueued
	a.ScheduledAt = &at
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.stats)
	broadcast(ctx, s.notifier, notifier.EventAssetUpdated, a)
	return a, nil
}
