package mariadb

import (
	"context"
	"database/sql"
	"time"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type AssetDestinationRepository struct {
	db *sql.DB
}

// compile-time check: *AssetDestinationRepository must satisfy port.AssetDestinationRepository
var _ port.AssetDestinationRepository = (*AssetDestinationRepository)(nil)

func NewAssetDestinationRepository(db *sql.DB) *AssetDestinationRepository {
	return &AssetDestinationRepository{db: db}
}

func (r *AssetDestinationRepository) Create(ctx context.Context, ad *model.AssetDestination) error {
	const query = `
      INSERT INTO asset_destinations (id, asset_id, destination_id, status, created_at)
      VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query, ad.ID, ad.AssetID, ad.DestinationID, ad.Status, ad.CreatedAt)
	return mapErr(err)
}

func (r *AssetDestinationRepository) GetByID(ctx context.Context, id db.UUID) (*model.AssetDestination, error) {
	const query = `
      SELECT id, asset_id, destination_id, status, published_url, error, published_at, created_at
      FROM asset_destinations
      WHERE id = ?
    `
	var ad model.AssetDestination
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ad.ID, &ad.AssetID, &ad.DestinationID, &ad.Status,
		&ad.PublishedURL, &ad.Error, &ad.PublishedAt, &ad.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *AssetDestinationRepository) ListByAsset(ctx context.Context, assetID db.UUID) ([]*model.AssetDestinationDetails, error) {
	const query = `
      SELECT ad.id, ad.asset_id, ad.destination_id, ad.status, ad.published_url, ad.error, ad.published_at, ad.created_at,
             d.id, d.name, d.platform, d.account_handle, d.is_active, d.config, d.created_at
      FROM asset_destinations ad
      JOIN destinations d ON d.id = ad.destination_id
      WHERE ad.asset_id = ?
      ORDER BY ad.created_at
    `
	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.AssetDestinationDetails
	for rows.Next() {
		var det model.AssetDestinationDetails
		if err := rows.Scan(
			&det.ID, &det.AssetID, &det.DestinationID, &det.Status,
			&det.PublishedURL, &det.Error, &det.PublishedAt, &det.CreatedAt,
			&det.Destination.ID, &det.Destination.Name, &det.Destination.Platform,
			&det.Destination.AccountHandle, &det.Destination.IsActive,
			&det.Destination.Config, &det.Destination.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &det)
	}
	return out, rows.Err()
}

// UpdateStatus keeps the previous published URL and error unless new values are given.
func (r *AssetDestinationRepository) UpdateStatus(ctx context.Context, id db.UUID, status model.PublishStatus, publishedURL, errText *string, publishedAt *time.Time) error {
	const query = `
      UPDATE asset_destinations
      SET status        = ?,
          published_url = COALESCE(?, published_url),
          error         = COALESCE(?, error),
          published_at  = COALESCE(?, published_at)
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, status, publishedURL, errText, publishedAt, id)
	return err
}
