package cache

import (
	"context"

	"github.com/fhuszti/content-engine-go/internal/port"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.StatsCache
var _ port.StatsCache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetDashboardStats(ctx context.Context) (*port.DashboardStats, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) SetDashboardStats(ctx context.Context, stats *port.DashboardStats) {}

func (n *NoopCache) DeleteDashboardStats(ctx context.Context) error { return nil }
