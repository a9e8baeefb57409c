package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PublicPrefix is the key prefix readable without credentials. Asset media
// lives under it so the automation engine can fetch files by their public URL.
const PublicPrefix = "assets/"

type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expiry time.Duration) (*url.URL, error)
	EndpointURL() *url.URL
}

// MinioStorage holds asset media in a single bucket.
type MinioStorage struct {
	client minioClient
	bucket string
	useSSL bool
}

// compile-time check: *MinioStorage must satisfy port.Storage
var _ port.Storage = (*MinioStorage)(nil)

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &MinioStorage{client: client, bucket: bucket, useSSL: useSSL}, nil
}

// InitBucket creates the bucket when missing and opens PublicPrefix to anonymous reads.
// It is safe to call on every start.
func (s *MinioStorage) InitBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return mapMinioErr(err)
	}
	if !exists {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucket)
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}

	if err := s.client.SetBucketPolicy(ctx, s.bucket, publicReadPolicy(s.bucket)); err != nil {
		return fmt.Errorf("set public read policy on %q: %w", s.bucket, mapMinioErr(err))
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/%s*"]}]}`, bucket, PublicPrefix)
}

func (s *MinioStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	logger.Debugf(ctx, "presigning upload of %q to bucket %q, valid %s", objectKey, s.bucket, expiry)

	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, expiry)
	if err != nil {
		return "", mapMinioErr(err)
	}
	return u.String(), nil
}

// PublicURL is the anonymous address of objectKey. Only keys under PublicPrefix resolve.
func (s *MinioStorage) PublicURL(objectKey string) string {
	u := url.URL{
		Scheme: "http",
		Host:   s.client.EndpointURL().Host,
		Path:   "/" + s.bucket + "/" + objectKey,
	}
	if s.useSSL {
		u.Scheme = "https"
	}
	return u.String()
}

// NoopStorage is used when no object storage is configured.
type NoopStorage struct{}

// compile-time check: NoopStorage must satisfy port.Storage
var _ port.Storage = NoopStorage{}

func (NoopStorage) InitBucket(ctx context.Context) error { return nil }

func (NoopStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return "", port.ErrStorageUnavailable
}

func (NoopStorage) PublicURL(objectKey string) string { return "" }
