package asset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/mock"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/notifier"
	"github.com/fhuszti/content-engine-go/internal/port"
)

func TestScheduleAsset_Success(t *testing.T) {
	repo := &mock.MockAssetRepo{}
	tasks := &mock.MockDispatcher{}
	stats := &mock.MockStatsCache{}
	n := &mock.MockNotifier{}
	id := db.NewUUID()
	repo.Put(&model.Asset{ID: id, Serial: "S", Type: model.AssetTypeReel, Status: model.AssetStatusReady})
	svc := NewAssetScheduler(repo, tasks, stats, n)

	at := time.Date(2030, 1, 2, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	got, err := svc.ScheduleAsset(context.Background(), port.ScheduleAssetInput{
		ID: id, ScheduledAt: at, Payload: model.JSONMap{"destinations": []any{"ig"}},
	})
	if err != nil {
		t.Fatalf("ScheduleAsset() error: %v", err)
	}
	if got.Status != model.AssetStatusQueued {
		t.Errorf("status = %q; want queued", got.Status)
	}
	if got.ScheduledAt == nil || !got.ScheduledAt.Equal(at) || got.ScheduledAt.Location() != time.UTC {
		t.Errorf("scheduledAt = %v; want %s in UTC", got.ScheduledAt, at)
	}
	if len(tasks.Calls) != 1 {
		t.Fatalf("enqueued %d tasks; want 1", len(tasks.Calls))
	}
	call := tasks.Calls[0]
	if call.In.AssetID != id || call.In.WorkflowType != WorkflowTypeSchedule || !call.At.Equal(at) {
		t.Errorf("task = %+v", call)
	}
	if !stats.DeleteCalled {
		t.Error("stats should be invalidated")
	}
	if len(n.OfType(notifier.EventAssetUpdated)) != 1 {
		t.Error("asset_updated should be broadcast")
	}
}

func TestScheduleAsset_QueueUnavailable(t *testing.T) {
	repo := &mock.MockAssetRepo{}
	id := db.NewUUID()
	repo.Put(&model.Asset{ID: id, Status: model.AssetStatusReady})
	svc := NewAssetScheduler(repo, &mock.MockDispatcher{Err: port.ErrSchedulingUnavailable}, &mock.MockStatsCache{}, &mock.MockNotifier{})

	_, err := svc.ScheduleAsset(context.Background(), port.ScheduleAssetInput{ID: id, ScheduledAt: time.Now().Add(time.Hour)})
	if !errors.Is(err, port.ErrSchedulingUnavailable) {
		t.Fatalf("err = %v; want ErrSchedulingUnavailable", err)
	}
	if repo.Get(id).Status != model.AssetStatusReady {
		t.Error("asset must stay untouched when the task could not be queued")
	}
}

func TestScheduleAsset_Validation(t *testing.T) {
	svc := NewAssetScheduler(&mock.MockAssetRepo{}, &mock.MockDispatcher{}, &mock.MockStatsCache{}, &mock.MockNotifier{})

	if _, err := svc.ScheduleAsset(context.Background(), port.ScheduleAssetInput{ID: db.NewUUID()}); !errors.Is(err, ErrMissingScheduleAt) {
		t.Errorf("err = %v; want ErrMissingScheduleAt", err)
	}
	if _, err := svc.ScheduleAsset(context.Background(), port.ScheduleAssetInput{ID: db.NewUUID(), ScheduledAt: time.Now()}); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("err = %v; want ErrAssetNotFound", err)
	}
}
