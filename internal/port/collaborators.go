package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
)

type UUIDGen func() db.UUID

// Notifier pushes typed events to connected real-time clients. Delivery is best-effort.
type Notifier interface {
	Broadcast(ctx context.Context, eventType string, data any) error
}

// EngineTriggerRequest is the body sent to the automation engine's intake endpoint.
type EngineTriggerRequest struct {
	WorkflowID  db.UUID       `json:"workflowId"`
	Type        string        `json:"type"`
	Payload     model.JSONMap `json:"payload"`
	CallbackURL string        `json:"callbackUrl"`
}

// EngineExecution is the engine's synchronous acknowledgement of an intake call.
type EngineExecution struct {
	ExecutionID string `json:"executionId"`
	ResumeURL   string `json:"resumeUrl"`
}

// Engine is the external automation system that performs the actual publishing work.
type Engine interface {
	Trigger(ctx context.Context, req EngineTriggerRequest) (EngineExecution, error)
	Resume(ctx context.Context, resumeURL string, data json.RawMessage) error
}

// CallbackURLBuilder returns the address the engine must invoke to report completion.
type CallbackURLBuilder interface {
	CallbackURL(baseURL string, workflowID db.UUID) (string, error)
}

// TaskDispatcher enqueues deferred work.
type TaskDispatcher interface {
	EnqueueScheduledWorkflow(ctx context.Context, in ScheduledWorkflow, at time.Time) error
}

type ScheduledWorkflow struct {
	AssetID      db.UUID
	WorkflowType string
	Payload      model.JSONMap
}

// StatsCache stores the computed dashboard statistics.
type StatsCache interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	SetDashboardStats(ctx context.Context, stats *DashboardStats)
	DeleteDashboardStats(ctx context.Context) error
}

// Storage issues upload links for asset media.
type Storage interface {
	InitBucket(ctx context.Context) error
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	PublicURL(objectKey string) string
}
