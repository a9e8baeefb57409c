package task

import (
	"context"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueScheduledWorkflow(ctx context.Context, in port.ScheduledWorkflow, at time.Time) error {
	t, err := NewScheduledWorkflowTask(ScheduledWorkflowPayload{
		AssetID:      in.AssetID.String(),
		WorkflowType: in.WorkflowType,
		Payload:      in.Payload,
	})
	if err != nil {
		return err
	}
	info, err := d.client.EnqueueContext(ctx, t, asynq.ProcessAt(at), asynq.MaxRetry(3))
	if err != nil {
		return err
	}
	logger.Infof(ctx, "enqueued task %s for asset #%s, due at %s", info.ID, in.AssetID, at.Format(time.RFC3339))
	return nil
}
