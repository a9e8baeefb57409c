package model

import (
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
)

type AssetType string

const (
	AssetTypeReel     AssetType = "reel"
	AssetTypeCarousel AssetType = "carousel"
	AssetTypePost     AssetType = "post"
)

type AssetStatus string

const (
	AssetStatusDraft      AssetStatus = "draft"
	AssetStatusReady      AssetStatus = "ready"
	AssetStatusQueued     AssetStatus = "queued"
	AssetStatusProcessing AssetStatus = "processing"
	AssetStatusPublished  AssetStatus = "published"
	AssetStatusFailed     AssetStatus = "failed"
)

func (s AssetStatus) Valid() bool {
	switch s {
	case AssetStatusDraft, AssetStatusReady, AssetStatusQueued,
		AssetStatusProcessing, AssetStatusPublished, AssetStatusFailed:
		return true
	}
	return false
}

// Asset is a piece of content moving through the publish pipeline.
// Serial is assigned once at creation and never rewritten.
type Asset struct {
	ID           db.UUID     `json:"id"`
	Serial       string      `json:"serial"`
	Type         AssetType   `json:"type"`
	Status       AssetStatus `json:"status"`
	Title        *string     `json:"title"`
	Caption      *string     `json:"caption"`
	MediaURL     *string     `json:"mediaUrl"`
	ThumbnailURL *string     `json:"thumbnailUrl"`
	Duration     *int        `json:"duration"`
	FileSize     *int64      `json:"fileSize"`
	OwnerID      *db.UUID    `json:"ownerId"`
	ScheduledAt  *time.Time  `json:"scheduledAt"`
	PublishedAt  *time.Time  `json:"publishedAt"`
	Metadata     JSONMap     `json:"metadata"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// AssetDetails is an asset together with its publish targets and workflow history.
type AssetDetails struct {
	*Asset
	Destinations []*AssetDestinationDetails `json:"destinations"`
	Workflows    []*Workflow                `json:"workflows"`
}
