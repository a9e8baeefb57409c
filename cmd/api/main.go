package main

import (
	"context"
	"errors"
	"net/http"
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
	"github.com/fhuszti/content-engine-go/internal/handler/api"
	"github.com/fhuszti/content-engine-go/internal/logger"
	cMiddleware "github.com/fhuszti/content-engine-go/internal/middleware"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/repository/mariadb"
	"github.com/fhuszti/content-engine-go/internal/storage"
	"github.com/fhuszti/content-engine-go/internal/task"
	assetSvc "github.com/fhuszti/content-engine-go/internal/usecase/asset"
	destinationSvc "github.com/fhuszti/content-engine-go/internal/usecase/destination"
	workflowSvc "github.com/fhuszti/content-engine-go/internal/usecase/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()

	database := initDb(ctx, cfg)
	r := initRouter(ctx)

	hub := notifier.NewHub()
	var events port.Notifier = hub
	var stats port.StatsCache = cache.NewNoop()
	var dispatcher port.TaskDispatcher = task.NewNoopDispatcher()
	if cfg.RedisAddr != "" {
		rdb := initRedis(ctx, cfg)
		events = notifier.NewRedisPublisher(rdb, cfg.NotifyChannel)
		stats = cache.NewCache(rdb, cfg.StatsCacheTTL)
		dispatcher = task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		startRelay(ctx, rdb, cfg.NotifyChannel, hub)
		logger.Info(ctx, "✅  Redis enabled: stats cache, scheduling and cross-process events")
	} else {
		logger.Warn(ctx, "⚠️  Redis not configured, stats caching and scheduling are disabled")
	}

	strg := initStorage(ctx, cfg)

	var callbacks port.CallbackURLBuilder = callback.PlainURLBuilder{}
	var verifier cMiddleware.TokenVerifier
	if cfg.CallbackSecret != "" {
		signer := callback.NewSigner(cfg.CallbackSecret, cfg.CallbackTokenTTL)
		callbacks = signer
		verifier = signer
	} else {
		logger.Warn(ctx, "⚠️  CALLBACK_SECRET not set, the engine callback endpoint is unauthenticated")
	}

	if cfg.PublicBaseURL == "" {
		if cfg.TrustProxyHeaders {
			logger.Warn(ctx, "⚠️  PUBLIC_BASE_URL not set, callback addresses follow the X-Forwarded-* headers of each trigger request")
		} else {
			logger.Warn(ctx, "⚠️  PUBLIC_BASE_URL not set, callback addresses use the Host of each trigger request")
		}
	}

	eng := engine.NewClient(cfg.EngineWebhookURL, cfg.EngineTimeout)

	assetRepo := mariadb.NewAssetRepository(database.DB)
	destinationRepo := mariadb.NewDestinationRepository(database.DB)
	assetDestinationRepo := mariadb.NewAssetDestinationRepository(database.DB)
	workflowRepo := mariadb.NewWorkflowRepository(database.DB)

	triggerSvc := workflowSvc.NewWorkflowTriggerer(workflowRepo, eng, callbacks, events, db.NewUUID)
	callbackSvc := workflowSvc.NewCallbackHandler(workflowRepo, assetRepo, stats, events)
	resumeSvc := workflowSvc.NewWorkflowResumer(workflowRepo, eng)

	r.Route("/api", func(r chi.Router) {
		trigger := api.TriggerWorkflowHandler(triggerSvc, cfg.PublicBaseURL, cfg.TrustProxyHeaders)
		r.Post("/webhook/trigger", trigger)
		r.Post("/webhook/n8n", trigger)

		cb := api.WorkflowCallbackHandler(callbackSvc)
		r.With(cMiddleware.WithCallbackAuth(verifier)).Post("/webhook/callback", cb)
		r.With(cMiddleware.WithCallbackAuth(verifier)).Post("/webhook/n8n/callback", cb)

		r.With(cMiddleware.WithID()).Post("/workflow/{id}/resume", api.ResumeWorkflowHandler(resumeSvc))

		r.Get("/dashboard/stats", api.DashboardStatsHandler(assetSvc.NewDashboardStatsGetter(assetRepo, stats)))

		getter := assetSvc.NewAssetGetter(assetRepo, assetDestinationRepo, workflowRepo)
		tracker := destinationSvc.NewPublishTracker(assetDestinationRepo, assetRepo, destinationRepo, db.NewUUID)
		r.Get("/assets", api.ListAssetsHandler(getter))
		r.Post("/assets", api.CreateAssetHandler(assetSvc.NewAssetCreator(assetRepo, stats, events, db.NewUUID)))
		r.Route("/assets/{id}", func(r chi.Router) {
			r.Use(cMiddleware.WithID())
			r.Get("/", api.GetAssetHandler(getter))
			r.Patch("/", api.UpdateAssetHandler(assetSvc.NewAssetUpdater(assetRepo, stats, events)))
			r.Delete("/", api.DeleteAssetHandler(assetSvc.NewAssetDeleter(assetRepo, stats, events)))
			r.Post("/schedule", api.ScheduleAssetHandler(assetSvc.NewAssetScheduler(assetRepo, dispatcher, stats, events)))
			r.Post("/upload_link", api.GenerateMediaLinkHandler(assetSvc.NewMediaLinkGenerator(assetRepo, strg, events)))
			r.Post("/destinations", api.AttachDestinationHandler(tracker))
		})
		r.With(cMiddleware.WithID()).Patch("/asset_destinations/{id}", api.UpdatePublishStatusHandler(tracker))

		destinations := destinationSvc.NewDestinationManager(destinationRepo, db.NewUUID)
		r.Get("/destinations", api.ListDestinationsHandler(destinations))
		r.Post("/destinations", api.CreateDestinationHandler(destinations))
		r.With(cMiddleware.WithID()).Patch("/destinations/{id}", api.UpdateDestinationHandler(destinations))
	})
	r.Handle("/ws", api.EventsHandler(hub))

	listenRouter(ctx, stop, r, cfg, database)
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

func initRouter(ctx context.Context) *chi.Mux {
	logger.Info(ctx, "initialising router...")

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	return r
}

func initRedis(ctx context.Context, cfg *config.Settings) *redis.Client {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Errorf(ctx, "❌  Failed to reach Redis at %s: %v", cfg.RedisAddr, err)
		os.Exit(1)
	}
	return rdb
}

// startRelay feeds events published by any process into the local hub and
// waits until the subscription is live.
func startRelay(ctx context.Context, rdb *redis.Client, channel string, hub *notifier.Hub) {
	ready := make(chan struct{})
	go func() {
		if err := notifier.Relay(ctx, rdb, channel, hub, ready); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf(ctx, "❌  Event relay stopped: %v", err)
		}
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		logger.Warn(ctx, "⚠️  Event relay is not subscribed yet, real-time events may be missed")
	}
}

func initStorage(ctx context.Context, cfg *config.Settings) port.Storage {
	if cfg.MinioEndpoint == "" {
		logger.Warn(ctx, "⚠️  MinIO not configured, media upload links are disabled")
		return storage.NoopStorage{}
	}

	strg, err := storage.NewMinioStorage(
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioUseSSL,
		cfg.MediaBucket,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	if err := strg.InitBucket(ctx); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.MediaBucket, err)
		os.Exit(1)
	}

	return strg
}

func listenRouter(ctx context.Context, stop context.CancelFunc, r *chi.Mux, cfg *config.Settings, database *db.Database) {
	srv := &http.Server{Addr: ":" + strconv.Itoa(cfg.ServerPort), Handler: r}

	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stops the event relay
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "✅  Server gracefully stopped")

	if err := database.Close(); err != nil {
		logger.Errorf(ctx, "DB close error: %v", err)
		os.Exit(1)
	}
}
