package task

import (
	"context"
	"time"

	"github.com/fhuszti/content-engine-go/internal/port"
)

// NoopDispatcher is used when no Redis is configured.
type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueScheduledWorkflow(ctx context.Context, in port.ScheduledWorkflow, at time.Time) error {
	return port.ErrSchedulingUnavailable
}
