package storage

import (
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
)

var (
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)

// mapMinioErr folds S3 error codes into the package sentinels.
func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return ErrUnauthorized
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
