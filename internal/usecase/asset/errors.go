package asset

import (
	"database/sql"
	"errors"
)

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrInvalidType       = errors.New("asset type must be one of reel, carousel, post")
	ErrInvalidStatus     = errors.New("asset status is not valid")
	ErrSerialExhausted   = errors.New("could not generate a unique serial")
	ErrMissingScheduleAt = errors.New("scheduledAt is required")
	ErrInvalidMediaName  = errors.New("media file name is not valid")
)

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAssetNotFound
	}
	return err
}
