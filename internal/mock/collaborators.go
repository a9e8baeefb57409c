package mock

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type Event struct {
	Type string
	Data any
}

// MockNotifier records every broadcast event.
type MockNotifier struct {
	mu     sync.Mutex
	Events []Event
	Err    error
}

var _ port.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Broadcast(ctx context.Context, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, Event{Type: eventType, Data: data})
	return m.Err
}

// OfType returns the recorded events of the given type.
func (m *MockNotifier) OfType(eventType string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.Events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type ResumeCall struct {
	URL  string
	Data json.RawMessage
}

// MockEngine stands in for the automation engine.
type MockEngine struct {
	mu sync.Mutex

	TriggerOut port.EngineExecution
	TriggerErr error
	// TriggerFn, when set, overrides TriggerOut/TriggerErr.
	TriggerFn func(req port.EngineTriggerRequest) (port.EngineExecution, error)
	Requests  []port.EngineTriggerRequest

	ResumeErr error
	Resumed   []ResumeCall
}

var _ port.Engine = (*MockEngine)(nil)

func (m *MockEngine) Trigger(ctx context.Context, req port.EngineTriggerRequest) (port.EngineExecution, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	fn := m.TriggerFn
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return m.TriggerOut, m.TriggerErr
}

func (m *MockEngine) Resume(ctx context.Context, resumeURL string, data json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Resumed = append(m.Resumed, ResumeCall{URL: resumeURL, Data: data})
	return m.ResumeErr
}

// MockCallbackURLBuilder returns BaseURL-derived addresses.
type MockCallbackURLBuilder struct {
	Err error
}

var _ port.CallbackURLBuilder = (*MockCallbackURLBuilder)(nil)

func (m *MockCallbackURLBuilder) CallbackURL(baseURL string, workflowID db.UUID) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return baseURL + "/api/webhook/callback?wf=" + workflowID.String(), nil
}

type ScheduledCall struct {
	In port.ScheduledWorkflow
	At time.Time
}

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	Calls []ScheduledCall
	Err   error
}

var _ port.TaskDispatcher = (*MockDispatcher)(nil)

func (m *MockDispatcher) EnqueueScheduledWorkflow(ctx context.Context, in port.ScheduledWorkflow, at time.Time) error {
	m.Calls = append(m.Calls, ScheduledCall{In: in, At: at})
	return m.Err
}

// MockStatsCache implements port.StatsCache for tests.
type MockStatsCache struct {
	Stored    *port.DashboardStats
	GetErr    error
	DeleteErr error

	SetCalled    bool
	DeleteCalled bool
}

var _ port.StatsCache = (*MockStatsCache)(nil)

func (m *MockStatsCache) GetDashboardStats(ctx context.Context) (*port.DashboardStats, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Stored, nil
}

func (m *MockStatsCache) SetDashboardStats(ctx context.Context, stats *port.DashboardStats) {
	m.SetCalled = true
	m.Stored = stats
}

func (m *MockStatsCache) DeleteDashboardStats(ctx context.Context) error {
	m.DeleteCalled = true
	m.Stored = nil
	return m.DeleteErr
}

// MockStorage implements port.Storage for tests.
type MockStorage struct {
	InitErr      error
	PresignedURL string
	PresignedErr error
	PublicBase   string

	PresignedKey    string
	PresignedExpiry time.Duration
}

var _ port.Storage = (*MockStorage)(nil)

func (m *MockStorage) InitBucket(ctx context.Context) error { return m.InitErr }

func (m *MockStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	m.PresignedKey = objectKey
	m.PresignedExpiry = expiry
	if m.PresignedErr != nil {
		return "", m.PresignedErr
	}
	return m.PresignedURL, nil
}

func (m *MockStorage) PublicURL(objectKey string) string {
	return m.PublicBase + "/" + objectKey
}
