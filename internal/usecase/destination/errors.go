package destination

import (
	"database/sql"
	"errors"
)

var (
	ErrDestinationNotFound      = errors.New("destination not found")
	ErrAssetNotFound            = errors.New("asset not found")
	ErrAssetDestinationNotFound = errors.New("asset destination not found")
	ErrInvalidPublishStatus     = errors.New("publish status must be one of pending, publishing, published, failed")
	ErrAlreadyAttached          = errors.New("asset is already attached to this destination")
	ErrMissingFields            = errors.New("name, platform and accountHandle are required")
)

func notFoundAs(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}
