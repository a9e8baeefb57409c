package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
)

// WorkflowTriggerer creates a workflow record and hands it to the automation engine.
type WorkflowTriggerer interface {
	TriggerWorkflow(ctx context.Context, in TriggerWorkflowInput) (TriggerWorkflowOutput, error)
}
type TriggerWorkflowInput struct {
	Type            string
	AssetID         *db.UUID
	Payload         model.JSONMap
	CallbackBaseURL string
}
type TriggerWorkflowOutput struct {
	WorkflowID db.UUID `json:"workflowId"`
	Status     string  `json:"status"`
}

// CallbackHandler reconciles the engine's completion callback into workflow and asset state.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, in WorkflowCallbackInput) error
}
type WorkflowCallbackInput struct {
	WorkflowID db.UUID
	Status     model.WorkflowStatus
	Result     model.JSONMap
	Error      *string
	AssetID    *db.UUID
}

// WorkflowResumer re-marks a workflow running and forwards data to its paused execution.
type WorkflowResumer interface {
	ResumeWorkflow(ctx context.Context, in ResumeWorkflowInput) error
}
type ResumeWorkflowInput struct {
	WorkflowID db.UUID
	Data       json.RawMessage
}

// StuckWorkflowReaper fails workflows that never left the pending state.
type StuckWorkflowReaper interface {
	ReapStuckWorkflows(ctx context.Context) (int, error)
}

// AssetCreator creates an asset with a freshly generated serial.
type AssetCreator interface {
	CreateAsset(ctx context.Context, in CreateAssetInput) (*model.Asset, error)
}
type CreateAssetInput struct {
	Type         model.AssetType
	Status       model.AssetStatus
	Title        *string
	Caption      *string
	MediaURL     *string
	ThumbnailURL *string
	Duration     *int
	FileSize     *int64
	OwnerID      *db.UUID
	ScheduledAt  *time.Time
	Metadata     model.JSONMap
}

// AssetGetter reads assets with their destinations and workflows.
type AssetGetter interface {
	GetAsset(ctx context.Context, id db.UUID) (*model.AssetDetails, error)
	ListAssets(ctx context.Context, limit, offset int) ([]*model.Asset, error)
}

// AssetUpdater applies a partial update to an asset.
type AssetUpdater interface {
	UpdateAsset(ctx context.Context, in UpdateAssetInput) (*model.Asset, error)
}
type UpdateAssetInput struct {
	ID           db.UUID
	Type         *model.AssetType
	Status       *model.AssetStatus
	Title        *string
	Caption      *string
	MediaURL     *string
	ThumbnailURL *string
	Duration     *int
	FileSize     *int64
	ScheduledAt  *time.Time
	Metadata     model.JSONMap
}

// AssetDeleter removes an asset.
type AssetDeleter interface {
	DeleteAsset(ctx context.Context, id db.UUID) error
}

// AssetScheduler queues an asset for publishing at a later time.
type AssetScheduler interface {
	ScheduleAsset(ctx context.Context, in ScheduleAssetInput) (*model.Asset, error)
}
type ScheduleAssetInput struct {
	ID          db.UUID
	ScheduledAt time.Time
	Payload     model.JSONMap
}

// MediaLinkGenerator returns a presigned link to upload an asset's media file.
type MediaLinkGenerator interface {
	GenerateMediaLink(ctx context.Context, in GenerateMediaLinkInput) (GenerateMediaLinkOutput, error)
}
type GenerateMediaLinkInput struct {
	AssetID db.UUID
	Name    string
}
type GenerateMediaLinkOutput struct {
	UploadURL string `json:"uploadUrl"`
	MediaURL  string `json:"mediaUrl"`
}

// DashboardStatsGetter computes the dashboard counters.
type DashboardStatsGetter interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}
type DashboardStats struct {
	TotalAssets int `json:"totalAssets"`
	InQueue     int `json:"inQueue"`
	Published   int `json:"published"`
	Processing  int `json:"processing"`
	Failed      int `json:"failed"`
	SuccessRate int `json:"successRate"`
}

// DestinationManager lists, creates and updates publishing targets.
type DestinationManager interface {
	ListDestinations(ctx context.Context) ([]*model.Destination, error)
	CreateDestination(ctx context.Context, in CreateDestinationInput) (*model.Destination, error)
	UpdateDestination(ctx context.Context, in UpdateDestinationInput) (*model.Destination, error)
}
type CreateDestinationInput struct {
	Name          string
	Platform      string
	AccountHandle string
	IsActive      *bool
	Config        model.JSONMap
}
type UpdateDestinationInput struct {
	ID            db.UUID
	Name          *string
	Platform      *string
	AccountHandle *string
	IsActive      *bool
	Config        model.JSONMap
}

// PublishTracker manages the per-destination publish state of assets.
type PublishTracker interface {
	AttachDestination(ctx context.Context, assetID, destinationID db.UUID) (*model.AssetDestination, error)
	UpdatePublishStatus(ctx context.Context, in UpdatePublishStatusInput) (*model.AssetDestination, error)
}
type UpdatePublishStatusInput struct {
	ID           db.UUID
	Status       model.PublishStatus
	PublishedURL *string
	Error        *string
}
