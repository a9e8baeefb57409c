package testutil

import (
	"context"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
)

type RedisContainerInfo struct {
	Addr    string
	Cleanup func()
}

// StartRedisContainer runs the Redis backing the task queue and the event relay.
func StartRedisContainer() (*RedisContainerInfo, error) {
	var addr string
	_, cleanup, err := startContainer(&dockertest.RunOptions{Repository: "redis", Tag: "7"}, func(res *dockertest.Resource) error {
		addr = "localhost:" + res.GetPort("6379/tcp")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer func() { _ = rdb.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		return nil, err
	}
	return &RedisContainerInfo{Addr: addr, Cleanup: cleanup}, nil
}
