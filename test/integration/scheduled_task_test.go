package integration

import (
	"context"
	"testing"
	"time"

	"github.com/fhuszti/content-engine-go/internal/cache"
	"github.com/fhuszti/content-engine-go/internal/callback"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/engine"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/repository/mariadb"
	"github.com/fhuszti/content-engine-go/internal/task"
	assetSvc "github.com/fhuszti/content-engine-go/internal/usecase/asset"
	workflowSvc "github.com/fhuszti/content-engine-go/internal/usecase/workflow"
	"github.com/fhuszti/content-engine-go/test/testutil"
)

func waitForIntake(t *testing.T, fake *testutil.FakeEngine) port.EngineTriggerRequest {
	t.Helper()
	deadline := time.Now().Add(15 * time.Second)
	for {
		if reqs := fake.Requests(); len(reqs) > 0 {
			return reqs[0]
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the scheduled workflow to reach the engine")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestScheduledAssetTriggersWorkflow(t *testing.T) {
	testDB, err := testutil.SetupMigratedDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	defer func() { _ = testDB.Cleanup() }()

	fake := testutil.StartFakeEngine()
	defer fake.Close()

	ctx := context.Background()
	hub := notifier.NewHub()
	assetRepo := mariadb.NewAssetRepository(testDB.DB)
	workflowRepo := mariadb.NewWorkflowRepository(testDB.DB)

	triggerer := workflowSvc.NewWorkflowTriggerer(
		workflowRepo,
		engine.NewClient(fake.IntakeURL(), 5*time.Second),
		callback.PlainURLBuilder{},
		hub,
		db.NewUUID,
	)
	stopWorker := testutil.StartWorker(RedisAddr, "http://api.test", triggerer)
	defer stopWorker()

	a, err := assetSvc.NewAssetCreator(assetRepo, cache.NewNoop(), hub, db.NewUUID).
		CreateAsset(ctx, port.CreateAssetInput{Type: model.AssetTypePost, Title: ptrString("Weekly digest")})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}

	scheduler := assetSvc.NewAssetScheduler(assetRepo, task.NewDispatcher(RedisAddr, ""), cache.NewNoop(), hub)
	scheduled, err := scheduler.ScheduleAsset(ctx, port.ScheduleAssetInput{
		ID:          a.ID,
		ScheduledAt: time.Now().Add(time.Second),
		Payload:     model.JSONMap{"channel": "newsletter"},
	})
	if err != nil {
		t.Fatalf("ScheduleAsset: %v", err)
	}
	if scheduled.Status != model.AssetStatusQueued {
		t.Errorf("expected asset to be queued, got %q", scheduled.Status)
	}

	req := waitForIntake(t, fake)
	if req.Type != assetSvc.WorkflowTypeSchedule {
		t.Errorf("expected workflow type %q, got %q", assetSvc.WorkflowTypeSchedule, req.Type)
	}
	if req.Payload["channel"] != "newsletter" {
		t.Errorf("payload not forwarded: %#v", req.Payload)
	}
	if req.CallbackURL != "http://api.test"+callback.Path {
		t.Errorf("unexpected callback URL %q", req.CallbackURL)
	}

	wf, err := workflowRepo.GetByID(ctx, req.WorkflowID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if wf.AssetID == nil || *wf.AssetID != a.ID {
		t.Errorf("workflow not linked to asset: %v", wf.AssetID)
	}
}
