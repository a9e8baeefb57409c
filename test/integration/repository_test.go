package integration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/fhuszti/content-engine-go/internal/repository/mariadb"
	"github.com/fhuszti/content-engine-go/test/testutil"
)

func newAsset(serial string) *model.Asset {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Asset{
		ID:        db.NewUUID(),
		Serial:    serial,
		Type:      model.AssetTypeReel,
		Status:    model.AssetStatusDraft,
		Title:     ptrString("Launch teaser"),
		Metadata:  model.JSONMap{"lang": "en"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAssetRepositoryIntegration(t *testing.T) {
	testDB, err := testutil.SetupMigratedDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	defer func() { _ = testDB.Cleanup() }()

	ctx := context.Background()
	repo := mariadb.NewAssetRepository(testDB.DB)

	a := newAsset("LWW29HC0ABC")
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Serial != a.Serial || got.Status != model.AssetStatusDraft {
		t.Errorf("unexpected asset: %+v", got)
	}
	if got.Metadata["lang"] != "en" {
		t.Errorf("metadata not round-tripped: %#v", got.Metadata)
	}

	dup := newAsset(a.Serial)
	if err := repo.Create(ctx, dup); !errors.Is(err, port.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a reused serial, got %v", err)
	}

	publishedAt := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateStatus(ctx, a.ID, model.AssetStatusPublished, &publishedAt); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[model.AssetStatusPublished] != 1 {
		t.Errorf("expected 1 published asset, got %v", counts)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); err == nil {
		t.Error("expected an error reading a deleted asset")
	}
}

func TestWorkflowRepositoryIntegration_Reaping(t *testing.T) {
	testDB, err := testutil.SetupMigratedDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	defer func() { _ = testDB.Cleanup() }()

	ctx := context.Background()
	assets := mariadb.NewAssetRepository(testDB.DB)
	workflows := mariadb.NewWorkflowRepository(testDB.DB)

	a := newAsset("LWW29HC0XYZ")
	if err := assets.Create(ctx, a); err != nil {
		t.Fatalf("Create asset: %v", err)
	}

	old := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	recent := time.Now().UTC().Truncate(time.Second)
	stuck := &model.Workflow{ID: db.NewUUID(), AssetID: &a.ID, WorkflowType: "publish", Status: model.WorkflowStatusPending, StartedAt: &old}
	fresh := &model.Workflow{ID: db.NewUUID(), AssetID: &a.ID, WorkflowType: "publish", Status: model.WorkflowStatusPending, StartedAt: &recent}
	for _, wf := range []*model.Workflow{stuck, fresh} {
		if err := workflows.Create(ctx, wf); err != nil {
			t.Fatalf("Create workflow: %v", err)
		}
	}

	pending, err := workflows.ListPendingBefore(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListPendingBefore: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != stuck.ID {
		t.Fatalf("expected only the stuck workflow, got %d rows", len(pending))
	}

	changed, err := workflows.FailIfPending(ctx, stuck.ID, "timed out", time.Now().UTC())
	if err != nil || !changed {
		t.Fatalf("FailIfPending: changed=%v err=%v", changed, err)
	}
	changed, err = workflows.FailIfPending(ctx, stuck.ID, "timed out", time.Now().UTC())
	if err != nil || changed {
		t.Errorf("second FailIfPending should be a no-op: changed=%v err=%v", changed, err)
	}

	got, err := workflows.GetByID(ctx, stuck.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != model.WorkflowStatusFailed || got.Error == nil || *got.Error != "timed out" {
		t.Errorf("unexpected reaped workflow: %+v", got)
	}

	list, err := workflows.ListByAsset(ctx, a.ID)
	if err != nil {
		t.Fatalf("ListByAsset: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 workflows for asset, got %d", len(list))
	}
}
