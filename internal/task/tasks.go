package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/hibiken/asynq"
)

const TypeScheduledWorkflow = "workflow:scheduled"

type ScheduledWorkflowPayload struct {
	AssetID      string        `json:"asset_id"`
	WorkflowType string        `json:"workflow_type"`
	Payload      model.JSONMap `json:"payload,omitempty"`
}

// NewScheduledWorkflowTask creates an Asynq task that triggers a workflow for an asset.
func NewScheduledWorkflowTask(p ScheduledWorkflowPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal scheduled-workflow payload: %w", err)
	}
	return asynq.NewTask(TypeScheduledWorkflow, data), nil
}

// ParseScheduledWorkflowPayload parses the task payload to ScheduledWorkflowPayload.
func ParseScheduledWorkflowPayload(t *asynq.Task) (ScheduledWorkflowPayload, error) {
	var p ScheduledWorkflowPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ScheduledWorkflowPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
