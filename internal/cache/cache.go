package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/port"
	"github.com/redis/go-redis/v9"
)

const dashboardStatsKey = "stats:dashboard"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// compile-time check: *Cache must satisfy port.StatsCache
var _ port.StatsCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) GetDashboardStats(ctx context.Context) (*port.DashboardStats, error) {
	logger.Debug(ctx, "getting dashboard stats from cache...")

	val, err := c.client.Get(ctx, dashboardStatsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stats port.DashboardStats
	if err := json.Unmarshal(val, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}
	return &stats, nil
}

// SetDashboardStats is best-effort: failures are logged, never returned.
func (c *Cache) SetDashboardStats(ctx context.Context, stats *port.DashboardStats) {
	logger.Debugf(ctx, "caching dashboard stats for %s...", c.ttl)

	data, err := json.Marshal(stats)
	if err != nil {
		logger.Warnf(ctx, "failed to marshal dashboard stats: %v", err)
		return
	}
	if err := c.client.Set(ctx, dashboardStatsKey, data, c.ttl).Err(); err != nil {
		logger.Warnf(ctx, "failed to cache dashboard stats: %v", err)
	}
}

func (c *Cache) DeleteDashboardStats(ctx context.Context) error {
	logger.Debug(ctx, "deleting dashboard stats from cache...")

	if err := c.client.Del(ctx, dashboardStatsKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
