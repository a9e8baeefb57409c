package main

import (
	"context"
	"os"

	"github.com/fhuszti/content-engine-go/internal/cache"
	"github.com/fhuszti/content-engine-go/internal/config"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/repository/mariadb"
	workflowSvc "github.com/fhuszti/content-engine-go/internal/usecase/workflow"
	"github.com/redis/go-redis/v9"
)

// One-shot sweep of workflows stuck in pending, for cron jobs outside the worker.
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

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
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	events, stats := initRedis(ctx, cfg)

	reaper := workflowSvc.NewStuckWorkflowReaper(
		mariadb.NewWorkflowRepository(database.DB),
		mariadb.NewAssetRepository(database.DB),
		stats,
		events,
		cfg.WorkflowStuckAfter,
	)
	n, err := reaper.ReapStuckWorkflows(ctx)
	if err != nil {
		logger.Errorf(ctx, "❌  Stuck workflow sweep failed: %v", err)
		os.Exit(1)
	}
	logger.Infof(ctx, "✅  Stuck workflow sweep completed, %d workflow(s) failed", n)
}

// initRedis returns a silent notifier and no cache when Redis is not configured:
// there are no websocket clients in this process to notify.
func initRedis(ctx context.Context, cfg *config.Settings) (port.Notifier, port.StatsCache) {
	if cfg.RedisAddr == "" {
		logger.Warn(ctx, "⚠️  Redis not configured, reaped workflows will not be announced")
		return notifier.NewHub(), cache.NewNoop()
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	return notifier.NewRedisPublisher(rdb, cfg.NotifyChannel), cache.NewCache(rdb, cfg.StatsCacheTTL)
}
