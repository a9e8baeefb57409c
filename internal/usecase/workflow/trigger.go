package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/content-engine-go/internal/engine"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

const StatusTriggered = "triggered"

type workflowTriggererSrv struct {
	workflows port.WorkflowRepository
	engine    port.Engine
	callbacks port.CallbackURLBuilder
	notifier  port.Notifier
	newID     port.UUIDGen
	now       func() time.Time
}

// compile-time check: *workflowTriggererSrv must satisfy port.WorkflowTriggerer
var _ port.WorkflowTriggerer = (*workflowTriggererSrv)(nil)

func NewWorkflowTriggerer(
	workflows port.WorkflowRepository,
	eng port.Engine,
	callbacks port.CallbackURLBuilder,
	n port.Notifier,
	newID port.UUIDGen,
) port.WorkflowTriggerer {
	return &workflowTriggererSrv{
		workflows: workflows,
		engine:    eng,
		callbacks: callbacks,
		notifier:  n,
		newID:     newID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type workflowStartedEvent struct {
	AssetID      *string `json:"assetId"`
	WorkflowID   string  `json:"workflowId"`
	WorkflowType string  `json:"workflowType"`
}

// TriggerWorkflow persists a pending workflow, announces it, then hands it to
// the engine. The engine outcome is recorded on the workflow and never
// returned to the caller.
func (s *workflowTriggererSrv) TriggerWorkflow(ctx context.Context, in port.TriggerWorkflowInput) (port.TriggerWorkflowOutput, error) {
	if in.Type == "" {
		return port.TriggerWorkflowOutput{}, ErrMissingType
	}

	startedAt := s.now()
	wf := &model.Workflow{
		ID:           s.newID(),
		AssetID:      in.AssetID,
		WorkflowType: in.Type,
		Status:       model.WorkflowStatusPending,
		Payload:      in.Payload,
		StartedAt:    &startedAt,
	}
	if err := s.workflows.Create(ctx, wf); err != nil {
		return port.TriggerWorkflowOutput{}, fmt.Errorf("create workflow: %w", err)
	}

	ev := workflowStartedEvent{WorkflowID: wf.ID.String(), WorkflowType: wf.WorkflowType}
	if wf.AssetID != nil {
		id := wf.AssetID.String()
		ev.AssetID = &id
	}
	if err := s.notifier.Broadcast(ctx, notifier.EventWorkflowStarted, ev); err != nil {
		logger.Warnf(ctx, "failed to broadcast start of workflow #%s: %v", wf.ID, err)
	}

	// the outcome must be recorded even if the caller goes away mid-dispatch
	s.dispatch(context.WithoutCancel(ctx), wf, in.CallbackBaseURL)

	return port.TriggerWorkflowOutput{WorkflowID: wf.ID, Status: StatusTriggered}, nil
}

func (s *workflowTriggererSrv) dispatch(ctx context.Context, wf *model.Workflow, callbackBaseURL string) {
	callbackURL, err := s.callbacks.CallbackURL(callbackBaseURL, wf.ID)
	if err != nil {
		logger.Errorf(ctx, "failed to build callback address for workflow #%s: %v", wf.ID, err)
		s.markFailed(ctx, wf, ErrTextEngineUnreachable)
		return
	}

	exec, err := s.engine.Trigger(ctx, port.EngineTriggerRequest{
		WorkflowID:  wf.ID,
		Type:        wf.WorkflowType,
		Payload:     wf.Payload,
		CallbackURL: callbackURL,
	})
	switch {
	case err == nil:
		if err := s.workflows.MarkRunning(ctx, wf.ID, optional(exec.ExecutionID), optional(exec.ResumeURL)); err != nil {
			logger.Errorf(ctx, "failed to mark workflow #%s as running: %v", wf.ID, err)
		}
	case errors.Is(err, engine.ErrRejected):
		logger.Warnf(ctx, "engine rejected workflow #%s: %v", wf.ID, err)
		s.markFailed(ctx, wf, ErrTextEngineRejected)
	default:
		logger.Errorf(ctx, "engine unreachable for workflow #%s: %v", wf.ID, err)
		s.markFailed(ctx, wf, ErrTextEngineUnreachable)
	}
}

func (s *workflowTriggererSrv) markFailed(ctx context.Context, wf *model.Workflow, reason string) {
	if err := s.workflows.MarkFailed(ctx, wf.ID, reason); err != nil {
		logger.Errorf(ctx, "failed to mark workflow #%s as failed: %v", wf.ID, err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
