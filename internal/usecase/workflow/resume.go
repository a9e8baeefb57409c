package workflow

import (
	"context"
	"fmt"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type workflowResumerSrv struct {
	workflows port.WorkflowRepository
	engine    port.Engine
}

// compile-time check: *workflowResumerSrv must satisfy port.WorkflowResumer
var _ port.WorkflowResumer = (*workflowResumerSrv)(nil)

func NewWorkflowResumer(workflows port.WorkflowRepository, eng port.Engine) port.WorkflowResumer {
	return &workflowResumerSrv{workflows: workflows, engine: eng}
}

// ResumeWorkflow marks the workflow running whatever its current status and
// forwards data to its paused execution, if it has one. Delivery failures are
// logged only.
func (s *workflowResumerSrv) ResumeWorkflow(ctx context.Context, in port.ResumeWorkflowInput) error {
	wf, err := s.workflows.GetByID(ctx, in.WorkflowID)
	if err != nil {
		if isNotFound(err) {
			return ErrWorkflowNotFound
		}
		return fmt.Errorf("load workflow #%s: %w", in.WorkflowID, err)
	}

	if err := s.workflows.SetStatus(ctx, wf.ID, model.WorkflowStatusRunning); err != nil {
		return fmt.Errorf("mark workflow #%s as running: %w", wf.ID, err)
	}

	if wf.ResumeURL == nil || *wf.ResumeURL == "" {
		logger.Infof(ctx, "workflow #%s has no resume address, nothing to forward", wf.ID)
		return nil
	}
	if err := s.engine.Resume(ctx, *wf.ResumeURL, in.Data); err != nil {
		logger.Errorf(ctx, "failed to forward resume data for workflow #%s: %v", wf.ID, err)
	}
	return nil
}
