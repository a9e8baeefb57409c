package testutil

import (
	"context"

	"github.com/fhuszti/content-engine-go/internal/handler/worker"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker processing scheduled-workflow tasks.
// It returns a function to gracefully shut down the worker.
func StartWorker(redisAddr, callbackBaseURL string, svc port.WorkflowTriggerer) func() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeScheduledWorkflow, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseScheduledWorkflowPayload(t)
		if err != nil {
			return err
		}
		return worker.ScheduledWorkflowHandler(ctx, p, callbackBaseURL, svc)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	if err := srv.Start(mux); err != nil {
		logger.Errorf(context.Background(), "could not start worker: %v", err)
		return func() {}
	}

	return func() {
		srv.Shutdown()
	}
}
