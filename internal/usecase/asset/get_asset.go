package asset

import (
	"context"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

const (
	DefaultListLimit = 25
	MaxListLimit     = 100
)

type assetGetterSrv struct {
	assets       port.AssetRepository
	destinations port.AssetDestinationRepository
	workflows    port.WorkflowRepository
}

// compile-time check: *assetGetterSrv must satisfy port.AssetGetter
var _ port.AssetGetter = (*assetGetterSrv)(nil)

func NewAssetGetter(assets port.AssetRepository, destinations port.AssetDestinationRepository, workflows port.WorkflowRepository) port.AssetGetter {
	return &assetGetterSrv{assets: assets, destinations: destinations, workflows: workflows}
}

func (s *assetGetterSrv) GetAsset(ctx context.Context, id db.UUID) (*model.AssetDetails, error) {
	a, err := s.assets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	dests, err := s.destinations.ListByAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	wfs, err := s.workflows.ListByAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	if dests == nil {
		dests = []*model.AssetDestinationDetails{}
	}
	if wfs == nil {
		wfs = []*model.Workflow{}
	}
	return &model.AssetDetails{Asset: a, Destinations: dests, Workflows: wfs}, nil
}

// ListAssets returns the most recently updated assets first.
func (s *assetGetterSrv) ListAssets(ctx context.Context, limit, offset int) ([]*model.Asset, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := s.assets.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Asset{}
	}
	return list, nil
}
