package model

import (
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
)

type WorkflowStatus string

const (
	WorkflowStatusPending   WorkflowStatus = "pending"
	WorkflowStatusRunning   WorkflowStatus = "running"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusFailed    WorkflowStatus = "failed"
)

// Terminal reports whether no further transition is expected from s.
func (s WorkflowStatus) Terminal() bool {
	return s == WorkflowStatusCompleted || s == WorkflowStatusFailed
}

// Workflow tracks one invocation of the automation engine for an asset.
type Workflow struct {
	ID           db.UUID        `json:"id"`
	AssetID      *db.UUID       `json:"assetId"`
	WorkflowType string         `json:"workflowType"`
	Status       WorkflowStatus `json:"status"`
	ExecutionID  *string        `json:"n8nExecutionId"`
	ResumeURL    *string        `json:"resumeUrl"`
	Payload      JSONMap        `json:"payload"`
	Result       JSONMap        `json:"result"`
	Error        *string        `json:"error"`
	StartedAt    *time.Time     `json:"startedAt"`
	CompletedAt  *time.Time     `json:"completedAt"`
	CreatedAt    time.Time      `json:"createdAt"`
}
