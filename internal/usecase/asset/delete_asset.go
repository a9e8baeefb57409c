package asset

import (
	"context"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type assetDeleterSrv struct {
	repo     port.AssetRepository
	stats    port.StatsCache
	notifier port.Notifier
}

// compile-time check: *assetDeleterSrv must satisfy port.AssetDeleter
var _ port.AssetDeleter = (*assetDeleterSrv)(nil)

func NewAssetDeleter(repo port.AssetRepository, stats port.StatsCache, n port.Notifier) port.AssetDeleter {
	return &assetDeleterSrv{repo: repo, stats: stats, notifier: n}
}

type assetDeletedEvent struct {
	ID string `json:"id"`
}

func (s *assetDeleterSrv) DeleteAsset(ctx context.Context, id db.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}
	logger.Infof(ctx, "deleted asset #%s", id)

	invalidateStats(ctx, s.stats)
	broadcast(ctx, s.notifier, notifier.EventAssetDeleted, assetDeletedEvent{ID: id.String()})
	return nil
}
