package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/content-engine-go/internal/cache"
	"github.com/fhuszti/content-engine-go/internal/callback"
	"github.com/fhuszti/content-engine-go/internal/config"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/engine"
	workerHandler "github.com/fhuszti/content-engine-go/internal/handler/worker"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/repository/mariadb"
	"github.com/fhuszti/content-engine-go/internal/task"
	workflowSvc "github.com/fhuszti/content-engine-go/internal/usecase/workflow"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Errorf(ctx, "❌  Failed to reach Redis at %s: %v", cfg.RedisAddr, err)
		os.Exit(1)
	}
	events := notifier.NewRedisPublisher(rdb, cfg.NotifyChannel)
	stats := cache.NewCache(rdb, cfg.StatsCacheTTL)

	var callbacks port.CallbackURLBuilder = callback.PlainURLBuilder{}
	if cfg.CallbackSecret != "" {
		callbacks = callback.NewSigner(cfg.CallbackSecret, cfg.CallbackTokenTTL)
	}
	callbackBase := cfg.PublicBaseURL
	if callbackBase == "" {
		callbackBase = "http://localhost:" + strconv.Itoa(cfg.ServerPort)
		logger.Warnf(ctx, "⚠️  PUBLIC_BASE_URL not set, scheduled workflows will call back on %s", callbackBase)
	}

	workflowRepo := mariadb.NewWorkflowRepository(database.DB)
	assetRepo := mariadb.NewAssetRepository(database.DB)
	eng := engine.NewClient(cfg.EngineWebhookURL, cfg.EngineTimeout)

	triggerSvc := workflowSvc.NewWorkflowTriggerer(workflowRepo, eng, callbacks, events, db.NewUUID)
	reaperSvc := workflowSvc.NewStuckWorkflowReaper(workflowRepo, assetRepo, stats, events, cfg.WorkflowStuckAfter)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeScheduledWorkflow, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseScheduledWorkflowPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.ScheduledWorkflowHandler(ctx, p, callbackBase, triggerSvc)
	})

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.ReapSchedule, func() {
		n, err := reaperSvc.ReapStuckWorkflows(context.Background())
		if err != nil {
			logger.Errorf(context.Background(), "❌  Stuck workflow sweep failed: %v", err)
			return
		}
		if n > 0 {
			logger.Infof(context.Background(), "✅  Failed %d stuck workflow(s)", n)
		}
	}); err != nil {
		logger.Errorf(ctx, "❌  Invalid REAP_SCHEDULE %q: %v", cfg.ReapSchedule, err)
		os.Exit(1)
	}

	runWorker(ctx, mux, sched, cfg, database, rdb)
}

func initDb(ctx context.Context, cfg *config.Settings) *db.Database {
	logger.Info(ctx, "initialising database...")

	database, err := db.New(db.Config{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, sched *cron.Cron, cfg *config.Settings, database *db.Database, rdb *redis.Client) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 10})

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	sched.Start()
	logger.Infof(ctx, "🚀 Worker started, sweeping stuck workflows on %q", cfg.ReapSchedule)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// wait for a running sweep, bounded
	cronDone := sched.Stop()
	select {
	case <-cronDone.Done():
	case <-time.After(30 * time.Second):
		logger.Warn(ctx, "⚠️  Stuck workflow sweep still running at shutdown")
	}
	srv.Shutdown()

	if err := rdb.Close(); err != nil {
		logger.Warnf(ctx, "Redis close error: %v", err)
	}
	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
