package mock

import (
	"context"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type MockWorkflowTriggerer struct {
	In  port.TriggerWorkflowInput
	Out port.TriggerWorkflowOutput
	Err error

	Called bool
}

func (m *MockWorkflowTriggerer) TriggerWorkflow(ctx context.Context, in port.TriggerWorkflowInput) (port.TriggerWorkflowOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

type MockCallbackHandler struct {
	In  port.WorkflowCallbackInput
	Err error

	Called bool
}

func (m *MockCallbackHandler) HandleCallback(ctx context.Context, in port.WorkflowCallbackInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

type MockWorkflowResumer struct {
	In  port.ResumeWorkflowInput
	Err error

	Called bool
}

func (m *MockWorkflowResumer) ResumeWorkflow(ctx context.Context, in port.ResumeWorkflowInput) error {
	m.Called = true
	m.In = in
	return m.Err
}

type MockAssetCreator struct {
	In  port.CreateAssetInput
	Out *model.Asset
	Err error

	Called bool
}

func (m *MockAssetCreator) CreateAsset(ctx context.Context, in port.CreateAssetInput) (*model.Asset, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

type MockAssetGetter struct {
	GetOut  *model.AssetDetails
	GetErr  error
	ListOut []*model.Asset
	ListErr error

	GetID       db.UUID
	ListedLimit int
	ListedOff   int
}

func (m *MockAssetGetter) GetAsset(ctx context.Context, id db.UUID) (*model.AssetDetails, error) {
	m.GetID = id
	return m.GetOut, m.GetErr
}

func (m *MockAssetGetter) ListAssets(ctx context.Context, limit, offset int) ([]*model.Asset, error) {
	m.ListedLimit = limit
	m.ListedOff = offset
	return m.ListOut, m.ListErr
}

type MockAssetUpdater struct {
	In  port.UpdateAssetInput
	Out *model.Asset
	Err error

	Called bool
}

func (m *MockAssetUpdater) UpdateAsset(ctx context.Context, in port.UpdateAssetInput) (*model.Asset, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

type MockAssetDeleter struct {
	ID  db.UUID
	Err error
}

func (m *MockAssetDeleter) DeleteAsset(ctx context.Context, id db.UUID) error {
	m.ID = id
	return m.Err
}

type MockAssetScheduler struct {
	In  port.ScheduleAssetInput
	Out *model.Asset
	Err error

	Called bool
}

func (m *MockAssetScheduler) ScheduleAsset(ctx context.Context, in port.ScheduleAssetInput) (*model.Asset, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

type MockMediaLinkGenerator struct {
	In  port.GenerateMediaLinkInput
	Out port.GenerateMediaLinkOutput
	Err error

	Called bool
}

func (m *MockMediaLinkGenerator) GenerateMediaLink(ctx context.Context, in port.GenerateMediaLinkInput) (port.GenerateMediaLinkOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

type MockDashboardStatsGetter struct {
	Out *port.DashboardStats
	Err error
}

func (m *MockDashboardStatsGetter) GetDashboardStats(ctx context.Context) (*port.DashboardStats, error) {
	return m.Out, m.Err
}

type MockDestinationManager struct {
	ListOut   []*model.Destination
	ListErr   error
	CreateIn  port.CreateDestinationInput
	CreateOut *model.Destination
	CreateErr error
	UpdateIn  port.UpdateDestinationInput
	UpdateOut *model.Destination
	UpdateErr error

	CreateCalled bool
	UpdateCalled bool
}

func (m *MockDestinationManager) ListDestinations(ctx context.Context) ([]*model.Destination, error) {
	return m.ListOut, m.ListErr
}

func (m *MockDestinationManager) CreateDestination(ctx context.Context, in port.CreateDestinationInput) (*model.Destination, error) {
	m.CreateCalled = true
	m.CreateIn = in
	return m.CreateOut, m.CreateErr
}

func (m *MockDestinationManager) UpdateDestination(ctx context.Context, in port.UpdateDestinationInput) (*model.Destination, error) {
	m.UpdateCalled = true
	m.UpdateIn = in
	return m.UpdateOut, m.UpdateErr
}

type MockPublishTracker struct {
	AttachAssetID       db.UUID
	AttachDestinationID db.UUID
	AttachOut           *model.AssetDestination
	AttachErr           error
	UpdateIn            port.UpdatePublishStatusInput
	UpdateOut           *model.AssetDestination
	UpdateErr           error

	AttachCalled bool
	UpdateCalled bool
}

func (m *MockPublishTracker) AttachDestination(ctx context.Context, assetID, destinationID db.UUID) (*model.AssetDestination, error) {
	m.AttachCalled = true
	m.AttachAssetID = assetID
	m.AttachDestinationID = destinationID
	return m.AttachOut, m.AttachErr
}

func (m *MockPublishTracker) UpdatePublishStatus(ctx context.Context, in port.UpdatePublishStatusInput) (*model.AssetDestination, error) {
	m.UpdateCalled = true
	m.UpdateIn = in
	return m.UpdateOut, m.UpdateErr
}

var (
	_ port.WorkflowTriggerer    = (*MockWorkflowTriggerer)(nil)
	_ port.CallbackHandler      = (*MockCallbackHandler)(nil)
	_ port.WorkflowResumer      = (*MockWorkflowResumer)(nil)
	_ port.AssetCreator         = (*MockAssetCreator)(nil)
	_ port.AssetGetter          = (*MockAssetGetter)(nil)
	_ port.AssetUpdater         = (*MockAssetUpdater)(nil)
	_ port.AssetDeleter         = (*MockAssetDeleter)(nil)
	_ port.AssetScheduler       = (*MockAssetScheduler)(nil)
	_ port.MediaLinkGenerator   = (*MockMediaLinkGenerator)(nil)
	_ port.DashboardStatsGetter = (*MockDashboardStatsGetter)(nil)
	_ port.DestinationManager   = (*MockDestinationManager)(nil)
	_ port.PublishTracker       = (*MockPublishTracker)(nil)
)
