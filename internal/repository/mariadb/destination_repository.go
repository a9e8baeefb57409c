package mariadb

import (
	"context"
	"database/sql"

	"github.com/fhuszti/content-engine-go/internal/db"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type DestinationRepository struct {
	db *sql.DB
}

// compile-time check: *DestinationRepository must satisfy port.DestinationRepository
var _ port.DestinationRepository = (*DestinationRepository)(nil)

func NewDestinationRepository(db *sql.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

const destinationColumns = `id, name, platform, account_handle, is_active, config, created_at`

func scanDestination(s scanner) (*model.Destination, error) {
	var d model.Destination
	if err := s.Scan(&d.ID, &d.Name, &d.Platform, &d.AccountHandle, &d.IsActive, &d.Config, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DestinationRepository) Create(ctx context.Context, d *model.Destination) error {
	const query = `
      INSERT INTO destinations (id, name, platform, account_handle, is_active, config, created_at)
      VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.Platform, d.AccountHandle, d.IsActive, d.Config, d.CreatedAt)
	return mapErr(err)
}

func (r *DestinationRepository) GetByID(ctx context.Context, id db.UUID) (*model.Destination, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id = ?`, id)
	return scanDestination(row)
}

func (r *DestinationRepository) ListActive(ctx context.Context) ([]*model.Destination, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+destinationColumns+` FROM destinations WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DestinationRepository) Update(ctx context.Context, d *model.Destination) error {
	const query = `
      UPDATE destinations
      SET name = ?, platform = ?, account_handle = ?, is_active = ?, config = ?
      WHERE id = ?
    `
	_, err := r.db.ExecContext(ctx, query, d.Name, d.Platform, d.AccountHandle, d.IsActive, d.Config, d.ID)
	return err
}
