package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/google/uuid"
)

var workflowCols = []string{
	"id", "asset_id", "workflow_type", "status", "n8n_execution_id", "resume_url",
	"payload", "result", "error", "started_at", "completed_at", "created_at",
}

func newWorkflowRepo(t *testing.T) (*WorkflowRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error when opening stub database: %s", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewWorkflowRepository(sqlDB), mock
}

func TestWorkflowRepository_Create_Success(t *testing.T) {
	repo, mock := newWorkflowRepo(t)

	id := db.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	assetID := db.UUID(uuid.MustParse("ffffffff-1111-2222-3333-444444444444"))
	now := time.Now().UTC()
	wf := &model.Workflow{
		ID:           id,
		AssetID:      &assetID,
		WorkflowType: "publish_now",
		Status:       model.WorkflowStatusPending,
		Payload:      model.JSONMap{"caption": "hi"},
		StartedAt:    &now,
	}

	mock.ExpectExec("INSERT INTO workflows").
		WithArgs(wf.ID, wf.AssetID, "publish_now", "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), wf); err != nil {
		t.Errorf("Create() returned unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestWorkflowRepository_Create_ExecError(t *testing.T) {
	repo, mock := newWorkflowRepo(t)

	mock.ExpectExec("INSERT INTO workflows").WillReturnError(errors.New("db.Exec failed"))

	err := repo.Create(context.Background(), &model.Workflow{ID: db.NewUUID(), Status: model.WorkflowStatusPending})
	if err == nil || err.Error() != "db.Exec failed" {
		t.Fatalf("expected 'db.Exec failed', got %v", err)
	}
}

func TestWorkflowRepository_GetByID(t *testing.T) {
	repo, mock := newWorkflowRepo(t)

	id := db.UUID(uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"))
	idBytes, _ := id.Value()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(workflowCols).AddRow(
		idBytes, nil, "schedule", "running", "exec-1", "https://n8n/resume/1",
		[]byte(`{"a":1}`), nil, nil, created, nil, created,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM workflows WHERE id = ?")).
		WithArgs(id).
		WillReturnRows(rows)

	wf, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if wf.ID != id {
		t.Errorf("ID = %s; want %s", wf.ID, id)
	}
	if wf.AssetID != nil {
		t.Errorf("AssetID = %v; want nil", wf.AssetID)
	}
	if wf.Status != model.WorkflowStatusRunning {
		t.Errorf("Status = %q; want running", wf.Status)
	}
	if wf.ExecutionID == nil || *wf.ExecutionID != "exec-1" {
		t.Errorf("ExecutionID = %v; want exec-1", wf.ExecutionID)
	}
	if wf.ResumeURL == nil || *wf.ResumeURL != "https://n8n/resume/1" {
		t.Errorf("ResumeURL = %v", wf.ResumeURL)
	}
	if wf.Payload["a"] != float64(1) {
		t.Errorf("Payload = %v", wf.Payload)
	}
	if wf.CompletedAt != nil {
		t.Errorf("CompletedAt = %v; want nil", wf.CompletedAt)
	}
}

func TestWorkflowRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newWorkflowRepo(t)

	mock.ExpectQuery("FROM workflows").WillReturnRows(sqlmock.NewRows(workflowCols))

	_, err := repo.GetByID(context.Background(), db.NewUUID())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestWorkflowRepository_MarkRunning(t *testing.T) {
	repo, mock := newWorkflowRepo(t)

	id := db.NewUUID()
	exec, resume := "exec-9", "https://n8n/resume/9"
	mock.ExpectExec(regexp.QuoteMeta("SET status = ?, n8n_execution_id = ?, resume_url = ?")).
		WithArgs("running", exec, resume, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkRunning(context.Background(), id, &exec, &resume); err != nil {
		t.Fatalf("MarkRunning() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestWorkflowRepository_RecordOutcome_NilCompletedAt(t *testing.T) {
	repo, mock := newWorkflowRepo(t)

	id := db.NewUUID()
	mock.ExpectExec(regexp.QuoteMeta("SET status = ?, result = ?, error = ?, completed_at = ?")).
		WithArgs("waiting", nil, nil, nil, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordOutcome(context.Background(), id, "waiting", nil, nil, nil); err != nil {
		t.Fatalf("RecordOutcome() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestWorkflowRepository_FailIfPending(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"still pending", 1, true},
		{"already moved on", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newWorkflowRepo(t)
			id := db.NewUUID()
			mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND status = ?")).
				WithArgs("failed", "stuck", sqlmock.AnyArg(), id, "pending").
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			got, err := repo.FailIfPending(context.Background(), id, "stuck", time.Now())
			if err != nil {
				t.Fatalf("FailIfPending() error: %v", err)
			}
			if got != tc.want {
				t.Errorf("FailIfPending() = %v; want %v", got, tc.want)
			}
		})
	}
}
