package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/content-engine-go/internal/storage"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
)

const (
	MinioRootUser     = "minioadmin"
	MinioRootPassword = "minioadmin"
	MediaBucket       = "assets"
)

type MinIOContainerInfo struct {
	Endpoint string
	Storage  *storage.MinioStorage
	Cleanup  func()
}

func StartMinIOContainer() (*MinIOContainerInfo, error) {
	var endpoint string
	_, cleanup, err := startContainer(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Env: []string{
			"MINIO_ROOT_USER=" + MinioRootUser,
			"MINIO_ROOT_PASSWORD=" + MinioRootPassword,
		},
		Cmd: []string{"server", "/data"},
	}, func(res *dockertest.Resource) error {
		endpoint = "localhost:" + res.GetPort("9000/tcp")
		client, err := minio.New(endpoint, &minio.Options{
			Creds: credentials.NewStaticV4(MinioRootUser, MinioRootPassword, ""),
		})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err = client.ListBuckets(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	strg, err := storage.NewMinioStorage(endpoint, MinioRootUser, MinioRootPassword, false, MediaBucket)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("could not create minio storage: %w", err)
	}
	return &MinIOContainerInfo{Endpoint: endpoint, Storage: strg, Cleanup: cleanup}, nil
}
