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

type AssetRepository struct {
	db *sql.DB
}

// compile-time check: *AssetRepository must satisfy port.AssetRepository
var _ port.AssetRepository = (*AssetRepository)(nil)

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, serial, type, status, title, caption, media_url, thumbnail_url, duration, file_size, owner_id, scheduled_at, published_at, metadata, created_at, updated_at`

func scanAsset(s scanner) (*model.Asset, error) {
	var a model.Asset
	if err := s.Scan(
		&a.ID, &a.Serial, &a.Type, &a.Status,
		&a.Title, &a.Caption, &a.MediaURL, &a.ThumbnailURL,
		&a.Duration, &a.FileSize, &a.OwnerID,
		&a.ScheduledAt, &a.PublishedAt, &a.Metadata,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Create(ctx context.Context, a *model.Asset) error {
	logger.Debugf(ctx, "creating database record for asset %s (#%s), at status %q...", a.Serial, a.ID, a.Status)

	const query = `
      INSERT INTO assets
        (id, serial, type, status, title, caption, media_url, thumbnail_url, duration, file_size, owner_id, scheduled_at, published_at, metadata, created_at, updated_at)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Serial, a.Type, a.Status,
		a.Title, a.Caption, a.MediaURL, a.ThumbnailURL,
		a.Duration, a.FileSize, a.OwnerID,
		a.ScheduledAt, a.PublishedAt, a.Metadata,
		a.CreatedAt, a.UpdatedAt,
	)
	return mapErr(err)
}

func (r *AssetRepository) GetByID(ctx context.Context, id db.UUID) (*model.Asset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	return scanAsset(row)
}

func (r *AssetRepository) List(ctx context.Context, limit, offset int) ([]*model.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assetColumns+` FROM assets ORDER BY updated_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update rewrites every mutable column. The serial is never part of the update.
func (r *AssetRepository) Update(ctx context.Context, a *model.Asset) error {
	logger.Debugf(ctx, "updating database record for asset #%s, with status %q...", a.ID, a.Status)

	const query = `
      UPDATE assets
      SET
        type          = ?,
        status        = ?,
        title         = ?,
        caption       = ?,
        media_url     = ?,
        thumbnail_url = ?,
        duration      = ?,
        file_size     = ?,
        scheduled_at  = ?,
        published_at  = ?,
        metadata      = ?,
        updated_at    = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query,
		a.Type, a.Status, a.Title, a.Caption,
		a.MediaURL, a.ThumbnailURL, a.Duration, a.FileSize,
		a.ScheduledAt, a.PublishedAt, a.Metadata, a.UpdatedAt,
		a.ID, // WHERE clause
	)
	return err
}

// UpdateStatus writes the status and refreshes updated_at. published_at is only
// overwritten when a value is given.
func (r *AssetRepository) UpdateStatus(ctx context.Context, id db.UUID, status model.AssetStatus, publishedAt *time.Time) error {
	logger.Debugf(ctx, "setting status %q on asset #%s...", status, id)

	const query = `
      UPDATE assets
      SET status = ?, published_at = COALESCE(?, published_at), updated_at = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, status, publishedAt, time.Now().UTC(), id)
	return err
}

func (r *AssetRepository) Delete(ctx context.Context, id db.UUID) error {
	logger.Debugf(ctx, "deleting database record for asset #%s...", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AssetRepository) CountByStatus(ctx context.Context) (map[model.AssetStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[model.AssetStatus]int)
	for rows.Next() {
		var (
			status model.AssetStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}
