package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/task"
	"github.com/hibiken/asynq"
)

// ScheduledWorkflowHandler handles a scheduled-workflow task.
// It converts the task payload to a trigger input and delegates to the
// orchestrator. callbackBaseURL is where the engine can reach the API.
func ScheduledWorkflowHandler(ctx context.Context, p task.ScheduledWorkflowPayload, callbackBaseURL string, svc port.WorkflowTriggerer) error {
	assetID, err := db.ParseUUID(p.AssetID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid asset ID %q: %v", p.AssetID, err)
		// retrying cannot fix a malformed payload
		return fmt.Errorf("invalid asset id %q: %w", p.AssetID, asynq.SkipRetry)
	}

	out, err := svc.TriggerWorkflow(ctx, port.TriggerWorkflowInput{
		Type:            p.WorkflowType,
		AssetID:         &assetID,
		Payload:         p.Payload,
		CallbackBaseURL: callbackBaseURL,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to trigger scheduled %q workflow for asset #%s: %v", p.WorkflowType, assetID, err)
		return err
	}

	logger.Infof(ctx, "✅  Triggered scheduled %q workflow #%s for asset #%s", p.WorkflowType, out.WorkflowID, assetID)
	return nil
}
