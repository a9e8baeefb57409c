package destination

import (
	"context"
	"strings"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type destinationManagerSrv struct {
	repo  port.DestinationRepository
	newID port.UUIDGen
	now   func() time.Time
}

// compile-time check: *destinationManagerSrv must satisfy port.DestinationManager
var _ port.DestinationManager = (*destinationManagerSrv)(nil)

func NewDestinationManager(repo port.DestinationRepository, newID port.UUIDGen) port.DestinationManager {
	return &destinationManagerSrv{
		repo:  repo,
		newID: newID,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// ListDestinations returns active destinations only.
func (s *destinationManagerSrv) ListDestinations(ctx context.Context) ([]*model.Destination, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Destination{}
	}
	return list, nil
}

func (s *destinationManagerSrv) CreateDestination(ctx context.Context, in port.CreateDestinationInput) (*model.Destination, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Platform) == "" || strings.TrimSpace(in.AccountHandle) == "" {
		return nil, ErrMissingFields
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	d := &model.Destination{
		ID:            s.newID(),
		Name:          in.Name,
		Platform:      in.Platform,
		AccountHandle: in.AccountHandle,
		IsActive:      active,
		Config:        in.Config,
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	logger.Infof(ctx, "created destination %q on %s (#%s)", d.Name, d.Platform, d.ID)
	return d, nil
}

func (s *destinationManagerSrv) UpdateDestination(ctx context.Context, in port.UpdateDestinationInput) (*model.Destination, error) {
	d, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, notFoundAs(err, ErrDestinationNotFound)
	}
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Platform != nil {
		d.Platform = *in.Platform
	}
	if in.AccountHandle != nil {
		d.AccountHandle = *in.AccountHandle
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}
	if in.Config != nil {
		d.Config = in.Config
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
