package mariadb

import (
	"context"
	"database/sql"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type WorkflowRepository struct {
	db *sql.DB
}

// compile-time check: *WorkflowRepository must satisfy port.WorkflowRepository
var _ port.WorkflowRepository = (*WorkflowRepository)(nil)

func NewWorkflowRepository(db *sql.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

const workflowColumns = `id, asset_id, workflow_type, status, n8n_execution_id, resume_url, payload, result, error, started_at, completed_at, created_at`

func scanWorkflow(s scanner) (*model.Workflow, error) {
	var wf model.Workflow
	if err := s.Scan(
		&wf.ID, &wf.AssetID, &wf.WorkflowType, &wf.Status,
		&wf.ExecutionID, &wf.ResumeURL, &wf.Payload, &wf.Result,
		&wf.Error, &wf.StartedAt, &wf.CompletedAt, &wf.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (r *WorkflowRepository) Create(ctx context.Context, wf *model.Workflow) error {
	logger.Debugf(ctx, "creating database record for workflow #%s, at status %q...", wf.ID, wf.Status)

	const query = `
      INSERT INTO workflows
        (id, asset_id, workflow_type, status, payload, started_at)
      VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		wf.ID, wf.AssetID, wf.WorkflowType, wf.Status, wf.Payload, wf.StartedAt,
	)
	return mapErr(err)
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id db.UUID) (*model.Workflow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = ?`, id)
	return scanWorkflow(row)
}

func (r *WorkflowRepository) ListByAsset(ctx context.Context, assetID db.UUID) ([]*model.Workflow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workflowColumns+` FROM workflows WHERE asset_id = ? ORDER BY created_at DESC`, assetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wf)
	}
	return out, rows.Err()
}

func (r *WorkflowRepository) MarkRunning(ctx context.Context, id db.UUID, executionID, resumeURL *string) error {
	logger.Debugf(ctx, "marking workflow #%s as running...", id)

	const query = `
      UPDATE workflows
      SET status = ?, n8n_execution_id = ?, resume_url = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, model.WorkflowStatusRunning, executionID, resumeURL, id)
	return err
}

func (r *WorkflowRepository) MarkFailed(ctx context.Context, id db.UUID, errText string) error {
	logger.Debugf(ctx, "marking workflow #%s as failed: %s", id, errText)

	const query = `UPDATE workflows SET status = ?, error = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, model.WorkflowStatusFailed, errText, id)
	return err
}

func (r *WorkflowRepository) RecordOutcome(ctx context.Context, id db.UUID, status model.WorkflowStatus, result model.JSONMap, errText *string, completedAt *time.Time) error {
	logger.Debugf(ctx, "recording outcome %q for workflow #%s...", status, id)

	const query = `
      UPDATE workflows
      SET status = ?, result = ?, error = ?, completed_at = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, status, result, errText, completedAt, id)
	return err
}

func (r *WorkflowRepository) SetStatus(ctx context.Context, id db.UUID, status model.WorkflowStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE workflows SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *WorkflowRepository) ListPendingBefore(ctx context.Context, before time.Time) ([]*model.Workflow, error) {
	const query = `SELECT ` + workflowColumns + `
      FROM workflows
      WHERE status = ? AND started_at < ?
      ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query, model.WorkflowStatusPending, before)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Workflow
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wf)
	}
	return out, rows.Err()
}

func (r *WorkflowRepository) FailIfPending(ctx context.Context, id db.UUID, errText string, completedAt time.Time) (bool, error) {
	const query = `
      UPDATE workflows
      SET status = ?, error = ?, completed_at = ?
      WHERE id = ? AND status = ?
    `
	res, err := r.db.ExecContext(ctx, query,
		model.WorkflowStatusFailed, errText, completedAt, id, model.WorkflowStatusPending,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
