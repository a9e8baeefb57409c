package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/hibiken/asynq"
)

type fakeEnqueuer struct {
	task *asynq.Task
	opts []asynq.Option
	err  error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.task = task
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func TestEnqueueScheduledWorkflow(t *testing.T) {
	fake := &fakeEnqueuer{}
	d := &Dispatcher{client: fake}
	assetID := db.NewUUID()
	at := time.Date(2030, 5, 1, 8, 0, 0, 0, time.UTC)

	err := d.EnqueueScheduledWorkflow(context.Background(), port.ScheduledWorkflow{
		AssetID: assetID, WorkflowType: "schedule", Payload: model.JSONMap{"k": "v"},
	}, at)
	if err != nil {
		t.Fatalf("EnqueueScheduledWorkflow() error: %v", err)
	}
	if fake.task.Type() != TypeScheduledWorkflow {
		t.Errorf("task type = %q", fake.task.Type())
	}
	p, err := ParseScheduledWorkflowPayload(fake.task)
	if err != nil {
		t.Fatalf("ParseScheduledWorkflowPayload() error: %v", err)
	}
	if p.AssetID != assetID.String() || p.WorkflowType != "schedule" || p.Payload["k"] != "v" {
		t.Errorf("payload = %+v", p)
	}

	var processAt time.Time
	for _, o := range fake.opts {
		if o.Type() == asynq.ProcessAtOpt {
			processAt = o.Value().(time.Time)
		}
	}
	if !processAt.Equal(at) {
		t.Errorf("process at = %s; want %s", processAt, at)
	}
}

func TestEnqueueScheduledWorkflow_Error(t *testing.T) {
	d := &Dispatcher{client: &fakeEnqueuer{err: errors.New("redis down")}}
	err := d.EnqueueScheduledWorkflow(context.Background(), port.ScheduledWorkflow{AssetID: db.NewUUID()}, time.Now())
	if err == nil || err.Error() != "redis down" {
		t.Fatalf("expected redis down, got %v", err)
	}
}

func TestParseScheduledWorkflowPayload_Invalid(t *testing.T) {
	if _, err := ParseScheduledWorkflowPayload(asynq.NewTask(TypeScheduledWorkflow, []byte("{"))); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNoopDispatcher(t *testing.T) {
	err := NewNoopDispatcher().EnqueueScheduledWorkflow(context.Background(), port.ScheduledWorkflow{}, time.Now())
	if !errors.Is(err, port.ErrSchedulingUnavailable) {
		t.Fatalf("err = %v; want ErrSchedulingUnavailable", err)
	}
}
