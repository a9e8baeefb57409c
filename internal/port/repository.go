package port

import (
	"context"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
)

// AssetRepository defines persistence operations for assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id db.UUID) (*model.Asset, error)
	List(ctx context.Context, limit, offset int) ([]*model.Asset, error)
	Update(ctx context.Context, asset *model.Asset) error
	UpdateStatus(ctx context.Context, id db.UUID, status model.AssetStatus, publishedAt *time.Time) error
	Delete(ctx context.Context, id db.UUID) error
	CountByStatus(ctx context.Context) (map[model.AssetStatus]int, error)
}

// DestinationRepository defines persistence operations for publishing targets.
type DestinationRepository interface {
	Create(ctx context.Context, d *model.Destination) error
	GetByID(ctx context.Context, id db.UUID) (*model.Destination, error)
	ListActive(ctx context.Context) ([]*model.Destination, error)
	Update(ctx context.Context, d *model.Destination) error
}

// AssetDestinationRepository defines persistence operations for per-destination publish state.
type AssetDestinationRepository interface {
	Create(ctx context.Context, ad *model.AssetDestination) error
	GetByID(ctx context.Context, id db.UUID) (*model.AssetDestination, error)
	ListByAsset(ctx context.Context, assetID db.UUID) ([]*model.AssetDestinationDetails, error)
	UpdateStatus(ctx context.Context, id db.UUID, status model.PublishStatus, publishedURL, errText *string, publishedAt *time.Time) error
}

// WorkflowRepository defines persistence operations for workflow records.
// Every method is a single-row write; callers never rely on multi-row transactions.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *model.Workflow) error
	GetByID(ctx context.Context, id db.UUID) (*model.Workflow, error)
	ListByAsset(ctx context.Context, assetID db.UUID) ([]*model.Workflow, error)
	MarkRunning(ctx context.Context, id db.UUID, executionID, resumeURL *string) error
	MarkFailed(ctx context.Context, id db.UUID, errText string) error
	RecordOutcome(ctx context.Context, id db.UUID, status model.WorkflowStatus, result model.JSONMap, errText *string, completedAt *time.Time) error
	SetStatus(ctx context.Context, id db.UUID, status model.WorkflowStatus) error
	ListPendingBefore(ctx context.Context, before time.Time) ([]*model.Workflow, error)
	// FailIfPending moves the workflow to failed only if it is still pending and
	// reports whether the row was changed.
	FailIfPending(ctx context.Context, id db.UUID, errText string, completedAt time.Time) (bool, error)
}
