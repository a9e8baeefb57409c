package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type callbackHandlerSrv struct {
	workflows port.WorkflowRepository
	assets    port.AssetRepository
	stats     port.StatsCache
	notifier  port.Notifier
	now       func() time.Time
}

// compile-time check: *callbackHandlerSrv must satisfy port.CallbackHandler
var _ port.CallbackHandler = (*callbackHandlerSrv)(nil)

func NewCallbackHandler(
	workflows port.WorkflowRepository,
	assets port.AssetRepository,
	stats port.StatsCache,
	n port.Notifier,
) port.CallbackHandler {
	return &callbackHandlerSrv{
		workflows: workflows,
		assets:    assets,
		stats:     stats,
		notifier:  n,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type workflowCompletedEvent struct {
	WorkflowID string               `json:"workflowId"`
	Status     model.WorkflowStatus `json:"status"`
	AssetID    *string              `json:"assetId"`
}

// HandleCallback records the engine's outcome on the workflow and derives the asset status from it.
// The reported asset must be the one the workflow was started for. Callbacks for unknown
// workflows are acknowledged without touching any asset. Failing to update the asset is
// logged and does not fail the callback.
func (s *callbackHandlerSrv) HandleCallback(ctx context.Context, in port.WorkflowCallbackInput) error {
	wf, err := s.workflows.GetByID(ctx, in.WorkflowID)
	switch {
	case isNotFound(err):
		logger.Warnf(ctx, "callback for unknown workflow #%s", in.WorkflowID)
		wf = nil
	case err != nil:
		return fmt.Errorf("load workflow #%s: %w", in.WorkflowID, err)
	case in.AssetID != nil && (wf.AssetID == nil || *wf.AssetID != *in.AssetID):
		return fmt.Errorf("%w: workflow #%s reported asset #%s", ErrAssetMismatch, in.WorkflowID, *in.AssetID)
	}

	now := s.now()

	var completedAt *time.Time
	if in.Status.Terminal() {
		completedAt = &now
	}
	if err := s.workflows.RecordOutcome(ctx, in.WorkflowID, in.Status, in.Result, in.Error, completedAt); err != nil {
		return fmt.Errorf("record outcome of workflow #%s: %w", in.WorkflowID, err)
	}
	logger.Infof(ctx, "workflow #%s reported %q", in.WorkflowID, in.Status)

	if in.AssetID != nil && wf != nil {
		status := deriveAssetStatus(in.Status, in.Result)
		var publishedAt *time.Time
		if status == model.AssetStatusPublished {
			publishedAt = &now
		}
		if err := s.assets.UpdateStatus(ctx, *in.AssetID, status, publishedAt); err != nil {
			logger.Errorf(ctx, "failed to set status %q on asset #%s: %v", status, *in.AssetID, err)
		} else {
			invalidateStats(ctx, s.stats)
		}
	}

	announceCompletion(ctx, s.notifier, in.WorkflowID, in.Status, in.AssetID)
	return nil
}

// deriveAssetStatus maps a reported workflow outcome to the asset status it
// implies. Anything other than a failure or a published completion means ready.
func deriveAssetStatus(status model.WorkflowStatus, result model.JSONMap) model.AssetStatus {
	switch {
	case status == model.WorkflowStatusCompleted && result.Truthy("published"):
		return model.AssetStatusPublished
	case status == model.WorkflowStatusFailed:
		return model.AssetStatusFailed
	default:
		return model.AssetStatusReady
	}
}

func announceCompletion(ctx context.Context, n port.Notifier, workflowID db.UUID, status model.WorkflowStatus, assetID *db.UUID) {
	ev := workflowCompletedEvent{WorkflowID: workflowID.String(), Status: status}
	if assetID != nil {
		id := assetID.String()
		ev.AssetID = &id
	}
	if err := n.Broadcast(ctx, notifier.EventWorkflowCompleted, ev); err != nil {
		logger.Warnf(ctx, "failed to broadcast completion of workflow #%s: %v", workflowID, err)
	}
}

func invalidateStats(ctx context.Context, stats port.StatsCache) {
	if err := stats.DeleteDashboardStats(ctx); err != nil {
		logger.Warnf(ctx, "failed to invalidate dashboard stats: %v", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
