package asset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

const maxSerialAttempts = 3

type assetCreatorSrv struct {
	repo     port.AssetRepository
	stats    port.StatsCache
	notifier port.Notifier
	newID    port.UUIDGen
	now      func() time.Time
	serial   func(time.Time) (string, error)
}

// compile-time check: *assetCreatorSrv must satisfy port.AssetCreator
var _ port.AssetCreator = (*assetCreatorSrv)(nil)

func NewAssetCreator(repo port.AssetRepository, stats port.StatsCache, n port.Notifier, newID port.UUIDGen) port.AssetCreator {
	return &assetCreatorSrv{
		repo:     repo,
		stats:    stats,
		notifier: n,
		newID:    newID,
		now:      func() time.Time { return time.Now().UTC() },
		serial:   NewSerial,
	}
}

func (s *assetCreatorSrv) CreateAsset(ctx context.Context, in port.CreateAssetInput) (*model.Asset, error) {
	if !validType(in.Type) {
		return nil, ErrInvalidType
	}
	status := in.Status
	if status == "" {
		status = model.AssetStatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	now := s.now()
	a := &model.Asset{
		ID:           s.newID(),
		Type:         in.Type,
		Status:       status,
		Title:        in.Title,
		Caption:      in.Caption,
		MediaURL:     in.MediaURL,
		ThumbnailURL: in.ThumbnailURL,
		Duration:     in.Duration,
		FileSize:     in.FileSize,
		OwnerID:      in.OwnerID,
		ScheduledAt:  in.ScheduledAt,
		Metadata:     in.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created bool
	for attempt := 1; attempt <= maxSerialAttempts; attempt++ {
		serial, err := s.serial(now)
		if err != nil {
			return nil, fmt.Errorf("generate serial: %w", err)
		}
		a.Serial = serial

		err = s.repo.Create(ctx, a)
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, port.ErrDuplicate) {
			return nil, err
		}
		logger.Warnf(ctx, "serial %s already taken (attempt %d/%d)", serial, attempt, maxSerialAttempts)
	}
	if !created {
		return nil, ErrSerialExhausted
	}
	logger.Infof(ctx, "created asset %s (#%s)", a.Serial, a.ID)

	invalidateStats(ctx, s.stats)
	broadcast(ctx, s.notifier, notifier.EventAssetCreated, a)
	return a, nil
}

func validType(t model.AssetType) bool {
	switch t {
	case model.AssetTypeReel, model.AssetTypeCarousel, model.AssetTypePost:
		return true
	}
	return false
}

func invalidateStats(ctx context.Context, stats port.StatsCache) {
	if err := stats.DeleteDashboardStats(ctx); err != nil {
		logger.Warnf(ctx, "failed to invalidate dashboard stats: %v", err)
	}
}

func broadcast(ctx context.Context, n port.Notifier, eventType string, data any) {
	if err := n.Broadcast(ctx, eventType, data); err != nil {
		logger.Warnf(ctx, "failed to broadcast %s: %v", eventType, err)
	}
}
