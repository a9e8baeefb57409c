package model

import (
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
)

// Destination is a social-platform account content can be published to.
type Destination struct {
	ID            db.UUID   `json:"id"`
	Name          string    `json:"name"`
	Platform      string    `json:"platform"`
	AccountHandle string    `json:"accountHandle"`
	IsActive      bool      `json:"isActive"`
	Config        JSONMap   `json:"config"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PublishStatus string

const (
	PublishStatusPending    PublishStatus = "pending"
	PublishStatusPublishing PublishStatus = "publishing"
	PublishStatusPublished  PublishStatus = "published"
	PublishStatusFailed     PublishStatus = "failed"
)

func (s PublishStatus) Valid() bool {
	switch s {
	case PublishStatusPending, PublishStatusPublishing, PublishStatusPublished, PublishStatusFailed:
		return true
	}
	return false
}

// AssetDestination records the publish state of one asset on one destination.
type AssetDestination struct {
	ID            db.UUID       `json:"id"`
	AssetID       db.UUID       `json:"assetId"`
	DestinationID db.UUID       `json:"destinationId"`
	Status        PublishStatus `json:"status"`
	PublishedURL  *string       `json:"publishedUrl"`
	Error         *string       `json:"error"`
	PublishedAt   *time.Time    `json:"publishedAt"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type AssetDestinationDetails struct {
	AssetDestination
	Destination Destination `json:"destination"`
}
