package mock

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

// MockWorkflowRepo is an in-memory workflow store for tests.
type MockWorkflowRepo struct {
	mu      sync.Mutex
	Records map[db.UUID]*model.Workflow

	CreateErr        error
	GetErr           error
	ListErr          error
	MarkRunningErr   error
	MarkFailedErr    error
	RecordErr        error
	SetStatusErr     error
	ListPendingErr   error
	FailIfPendingErr error

	// HonourCtx makes writes fail with ctx.Err() once the context is done, as a real driver would.
	HonourCtx bool

	// CreatedStatuses records the status each workflow had when it was first written.
	CreatedStatuses []model.WorkflowStatus
	PendingBefore   time.Time
}

var _ port.WorkflowRepository = (*MockWorkflowRepo)(nil)

func (m *MockWorkflowRepo) init() {
	if m.Records == nil {
		m.Records = make(map[db.UUID]*model.Workflow)
	}
}

// Get returns a copy of the stored workflow, or nil.
func (m *MockWorkflowRepo) Get(id db.UUID) *model.Workflow {
	m.mu.Lock()
	defer m.mu.Unlock()
	wf, ok := m.Records[id]
	if !ok {
		return nil
	}
	cp := *wf
	return &cp
}

func (m *MockWorkflowRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

func (m *MockWorkflowRepo) ctxErr(ctx context.Context) error {
	if m.HonourCtx {
		return ctx.Err()
	}
	return nil
}

func (m *MockWorkflowRepo) Create(ctx context.Context, wf *model.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := m.ctxErr(ctx); err != nil {
		return err
	}
	m.init()
	if _, exists := m.Records[wf.ID]; exists {
		return port.ErrDuplicate
	}
	cp := *wf
	m.Records[wf.ID] = &cp
	m.CreatedStatuses = append(m.CreatedStatuses, wf.Status)
	return nil
}

func (m *MockWorkflowRepo) GetByID(ctx context.Context, id db.UUID) (*model.Workflow, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	wf := m.Get(id)
	if wf == nil {
		return nil, sql.ErrNoRows
	}
	return wf, nil
}

func (m *MockWorkflowRepo) ListByAsset(ctx context.Context, assetID db.UUID) ([]*model.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*model.Workflow
	for _, wf := range m.Records {
		if wf.AssetID != nil && *wf.AssetID == assetID {
			cp := *wf
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockWorkflowRepo) update(ctx context.Context, id db.UUID, err error, fn func(wf *model.Workflow)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		return err
	}
	if err := m.ctxErr(ctx); err != nil {
		return err
	}
	if wf, ok := m.Records[id]; ok {
		fn(wf)
	}
	return nil
}

func (m *MockWorkflowRepo) MarkRunning(ctx context.Context, id db.UUID, executionID, resumeURL *string) error {
	return m.update(ctx, id, m.MarkRunningErr, func(wf *model.Workflow) {
		wf.Status = model.WorkflowStatusRunning
		wf.ExecutionID = executionID
		wf.ResumeURL = resumeURL
	})
}

func (m *MockWorkflowRepo) MarkFailed(ctx context.Context, id db.UUID, errText string) error {
	return m.update(ctx, id, m.MarkFailedErr, func(wf *model.Workflow) {
		wf.Status = model.WorkflowStatusFailed
		wf.Error = &errText
	})
}

func (m *MockWorkflowRepo) RecordOutcome(ctx context.Context, id db.UUID, status model.WorkflowStatus, result model.JSONMap, errText *string, completedAt *time.Time) error {
	return m.update(ctx, id, m.RecordErr, func(wf *model.Workflow) {
		wf.Status = status
		wf.Result = result
		wf.Error = errText
		wf.CompletedAt = completedAt
	})
}

func (m *MockWorkflowRepo) SetStatus(ctx context.Context, id db.UUID, status model.WorkflowStatus) error {
	return m.update(ctx, id, m.SetStatusErr, func(wf *model.Workflow) {
		wf.Status = status
	})
}

func (m *MockWorkflowRepo) ListPendingBefore(ctx context.Context, before time.Time) ([]*model.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PendingBefore = before
	if m.ListPendingErr != nil {
		return nil, m.ListPendingErr
	}
	var out []*model.Workflow
	for _, wf := range m.Records {
		if wf.Status == model.WorkflowStatusPending && wf.StartedAt != nil && wf.StartedAt.Before(before) {
			cp := *wf
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(*out[j].StartedAt) })
	return out, nil
}

func (m *MockWorkflowRepo) FailIfPending(ctx context.Context, id db.UUID, errText string, completedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIfPendingErr != nil {
		return false, m.FailIfPendingErr
	}
	wf, ok := m.Records[id]
	if !ok || wf.Status != model.WorkflowStatusPending {
		return false, nil
	}
	wf.Status = model.WorkflowStatusFailed
	wf.Error = &errText
	wf.CompletedAt = &completedAt
	return true, nil
}

// MockAssetRepo is an in-memory asset store for tests.
type MockAssetRepo struct {
	mu      sync.Mutex
	Records map[db.UUID]*model.Asset

	// CreateErrs are returned by successive Create calls before CreateErr applies.
	CreateErrs      []error
	CreateErr       error
	GetErr          error
	ListErr         error
	UpdateErr       error
	UpdateStatusErr error
	DeleteErr       error
	CountErr        error

	CreateCalls  int
	StatusWrites []AssetStatusWrite
	CountCalls   int
}

type AssetStatusWrite struct {
	ID          db.UUID
	Status      model.AssetStatus
	PublishedAt *time.Time
}

var _ port.AssetRepository = (*MockAssetRepo)(nil)

func (m *MockAssetRepo) init() {
	if m.Records == nil {
		m.Records = make(map[db.UUID]*model.Asset)
	}
}

// Put seeds an asset.
func (m *MockAssetRepo) Put(a *model.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.init()
	cp := *a
	m.Records[a.ID] = &cp
}

// Get returns a copy of the stored asset, or nil.
func (m *MockAssetRepo) Get(id db.UUID) *model.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Records[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (m *MockAssetRepo) Create(ctx context.Context, a *model.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if len(m.CreateErrs) > 0 {
		err := m.CreateErrs[0]
		m.CreateErrs = m.CreateErrs[1:]
		if err != nil {
			return err
		}
	}
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.init()
	cp := *a
	m.Records[a.ID] = &cp
	return nil
}

func (m *MockAssetRepo) GetByID(ctx context.Context, id db.UUID) (*model.Asset, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	a := m.Get(id)
	if a == nil {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *MockAssetRepo) List(ctx context.Context, limit, offset int) ([]*model.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*model.Asset, 0, len(m.Records))
	for _, a := range m.Records {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if offset >= len(out) {
		return []*model.Asset{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockAssetRepo) Update(ctx context.Context, a *model.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.init()
	cp := *a
	m.Records[a.ID] = &cp
	return nil
}

func (m *MockAssetRepo) UpdateStatus(ctx context.Context, id db.UUID, status model.AssetStatus, publishedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusWrites = append(m.StatusWrites, AssetStatusWrite{ID: id, Status: status, PublishedAt: publishedAt})
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	if a, ok := m.Records[id]; ok {
		a.Status = status
		if publishedAt != nil {
			a.PublishedAt = publishedAt
		}
		a.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MockAssetRepo) Delete(ctx context.Context, id db.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.Records, id)
	return nil
}

func (m *MockAssetRepo) CountByStatus(ctx context.Context) (map[model.AssetStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CountCalls++
	if m.CountErr != nil {
		return nil, m.CountErr
	}
	out := make(map[model.AssetStatus]int)
	for _, a := range m.Records {
		out[a.Status]++
	}
	return out, nil
}

// MockDestinationRepo is an in-memory destination store for tests.
type MockDestinationRepo struct {
	Records map[db.UUID]*model.Destination

	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error

	Created *model.Destination
	Updated *model.Destination
}

var _ port.DestinationRepository = (*MockDestinationRepo)(nil)

func (m *MockDestinationRepo) Create(ctx context.Context, d *model.Destination) error {
	m.Created = d
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.Records == nil {
		m.Records = make(map[db.UUID]*model.Destination)
	}
	cp := *d
	m.Records[d.ID] = &cp
	return nil
}

func (m *MockDestinationRepo) GetByID(ctx context.Context, id db.UUID) (*model.Destination, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	d, ok := m.Records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (m *MockDestinationRepo) ListActive(ctx context.Context) ([]*model.Destination, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []*model.Destination
	for _, d := range m.Records {
		if d.IsActive {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockDestinationRepo) Update(ctx context.Context, d *model.Destination) error {
	m.Updated = d
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Records == nil {
		m.Records = make(map[db.UUID]*model.Destination)
	}
	cp := *d
	m.Records[d.ID] = &cp
	return nil
}

// MockAssetDestinationRepo is an in-memory asset/destination link store for tests.
type MockAssetDestinationRepo struct {
	Records map[db.UUID]*model.AssetDestination
	Details []*model.AssetDestinationDetails

	CreateErr       error
	GetErr          error
	ListErr         error
	UpdateStatusErr error

	Created       *model.AssetDestination
	ListedAssetID db.UUID
}

var _ port.AssetDestinationRepository = (*MockAssetDestinationRepo)(nil)

func (m *MockAssetDestinationRepo) Create(ctx context.Context, ad *model.AssetDestination) error {
	m.Created = ad
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if m.Records == nil {
		m.Records = make(map[db.UUID]*model.AssetDestination)
	}
	cp := *ad
	m.Records[ad.ID] = &cp
	return nil
}

func (m *MockAssetDestinationRepo) GetByID(ctx context.Context, id db.UUID) (*model.AssetDestination, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	ad, ok := m.Records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *ad
	return &cp, nil
}

func (m *MockAssetDestinationRepo) ListByAsset(ctx context.Context, assetID db.UUID) ([]*model.AssetDestinationDetails, error) {
	m.ListedAssetID = assetID
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Details, nil
}

func (m *MockAssetDestinationRepo) UpdateStatus(ctx context.Context, id db.UUID, status model.PublishStatus, publishedURL, errText *string, publishedAt *time.Time) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	ad, ok := m.Records[id]
	if !ok {
		return nil
	}
	ad.Status = status
	if publishedURL != nil {
		ad.PublishedURL = publishedURL
	}
	if errText != nil {
		ad.Error = errText
	}
	if publishedAt != nil {
		ad.PublishedAt = publishedAt
	}
	return nil
}
