package testutil

import (
	"context"
	"fmt"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// startContainer runs an auto-removed container and retries ready until it
// succeeds. The returned cleanup purges the container.
func startContainer(opts *dockertest.RunOptions, ready func(*dockertest.Resource) error) (*dockertest.Resource, func(), error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to docker: %w", err)
	}

	res, err := pool.RunWithOptions(opts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not start %s container: %w", opts.Repository, err)
	}

	cleanup := func() {
		if err := pool.Purge(res); err != nil {
			logger.Warnf(context.Background(), "could not purge %s container: %v", opts.Repository, err)
		}
	}

	if err := pool.Retry(func() error { return ready(res) }); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("%s did not become ready: %w", opts.Repository, err)
	}
	return res, cleanup, nil
}
