package asset

import (
	"context"
	"time"

	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type assetUpdaterSrv struct {
	repo     port.AssetRepository
	stats    port.StatsCache
	notifier port.Notifier
	now      func() time.Time
}

// compile-time check: *assetUpdaterSrv must satisfy port.AssetUpdater
var _ port.AssetUpdater = (*assetUpdaterSrv)(nil)

func NewAssetUpdater(repo port.AssetRepository, stats port.StatsCache, n port.Notifier) port.AssetUpdater {
	return &assetUpdaterSrv{
		repo:     repo,
		stats:    stats,
		notifier: n,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// UpdateAsset applies every non-nil field of in. The serial is never changed.
func (s *assetUpdaterSrv) UpdateAsset(ctx context.Context, in port.UpdateAssetInput) (*model.Asset, error) {
	if in.Type != nil && !validType(*in.Type) {
		return nil, ErrInvalidType
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	a, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	prevStatus := a.Status

	if in.Type != nil {
		a.Type = *in.Type
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.Title != nil {
		a.Title = in.Title
	}
	if in.Caption != nil {
		a.Caption = in.Caption
	}
	if in.MediaURL != nil {
		a.MediaURL = in.MediaURL
	}
	if in.ThumbnailURL != nil {
		a.ThumbnailURL = in.ThumbnailURL
	}
	if in.Duration != nil {
		a.Duration = in.Duration
	}
	if in.FileSize != nil {
		a.FileSize = in.FileSize
	}
	if in.ScheduledAt != nil {
		a.ScheduledAt = in.ScheduledAt
	}
	if in.Metadata != nil {
		a.Metadata = in.Metadata
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if a.Status != prevStatus {
		invalidateStats(ctx, s.stats)
	}
	broadcast(ctx, s.notifier, notifier.EventAssetUpdated, a)
	return a, nil
}
