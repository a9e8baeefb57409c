package destination

import (
	"context"
	"errors"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type publishTrackerSrv struct {
	links        port.AssetDestinationRepository
	assets       port.AssetRepository
	destinations port.DestinationRepository
	newID        port.UUIDGen
	now          func() time.Time
}

// compile-time check: *publishTrackerSrv must satisfy port.PublishTracker
var _ port.PublishTracker = (*publishTrackerSrv)(nil)

func NewPublishTracker(
	links port.AssetDestinationRepository,
	assets port.AssetRepository,
	destinations port.DestinationRepository,
	newID port.UUIDGen,
) port.PublishTracker {
	return &publishTrackerSrv{
		links:        links,
		assets:       assets,
		destinations: destinations,
		newID:        newID,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// AttachDestination links an asset to a destination with a pending publish status.
func (s *publishTrackerSrv) AttachDestination(ctx context.Context, assetID, destinationID db.UUID) (*model.AssetDestination, error) {
	if _, err := s.assets.GetByID(ctx, assetID); err != nil {
		return nil, notFoundAs(err, ErrAssetNotFound)
	}
	if _, err := s.destinations.GetByID(ctx, destinationID); err != nil {
		return nil, notFoundAs(err, ErrDestinationNotFound)
	}

	ad := &model.AssetDestination{
		ID:            s.newID(),
		AssetID:       assetID,
		DestinationID: destinationID,
		Status:        model.PublishStatusPending,
		CreatedAt:     s.now(),
	}
	if err := s.links.Create(ctx, ad); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, ErrAlreadyAttached
		}
		return nil, err
	}
	logger.Infof(ctx, "attached asset #%s to destination #%s", assetID, destinationID)
	return ad, nil
}

// UpdatePublishStatus records the publish state of an asset on one destination.
// The published url and error are only overwritten when given; the publish
// time is set when the status becomes published.
func (s *publishTrackerSrv) UpdatePublishStatus(ctx context.Context, in port.UpdatePublishStatusInput) (*model.AssetDestination, error) {
	if !in.Status.Valid() {
		return nil, ErrInvalidPublishStatus
	}
	if _, err := s.links.GetByID(ctx, in.ID); err != nil {
		return nil, notFoundAs(err, ErrAssetDestinationNotFound)
	}

	var publishedAt *time.Time
	if in.Status == model.PublishStatusPublished {
		now := s.now()
		publishedAt = &now
	}
	if err := s.links.UpdateStatus(ctx, in.ID, in.Status, in.PublishedURL, in.Error, publishedAt); err != nil {
		return nil, err
	}

	ad, err := s.links.GetByID(ctx, in.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrAssetDestinationNotFound)
	}
	return ad, nil
}
