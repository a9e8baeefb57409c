package asset

import (
	"context"
	"math"

	"github.com/fhuszti/content-engine-go/internal/logger"
	"github.com/fhuszti/content-engine-go/internal/model"
	"github.com/fhuszti/content-engine-go/internal/port"
)

type dashboardStatsGetterSrv struct {
	repo  port.AssetRepository
	cache port.StatsCache
}

// compile-time check: *dashboardStatsGetterSrv must satisfy port.DashboardStatsGetter
var _ port.DashboardStatsGetter = (*dashboardStatsGetterSrv)(nil)

func NewDashboardStatsGetter(repo port.AssetRepository, cache port.StatsCache) port.DashboardStatsGetter {
	return &dashboardStatsGetterSrv{repo: repo, cache: cache}
}

func (s *dashboardStatsGetterSrv) GetDashboardStats(ctx context.Context) (*port.DashboardStats, error) {
	cached, err := s.cache.GetDashboardStats(ctx)
	if err != nil {
		logger.Warnf(ctx, "failed to read dashboard stats from cache: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := computeStats(counts)
	s.cache.SetDashboardStats(ctx, stats)
	return stats, nil
}

func computeStats(counts map[model.AssetStatus]int) *port.DashboardStats {
	total := 0
	for _, n := range counts {
		total += n
	}
	stats := &port.DashboardStats{
		TotalAssets: total,
		InQueue:     counts[model.AssetStatusQueued],
		Published:   counts[model.AssetStatusPublished],
		Processing:  counts[model.AssetStatusProcessing],
		Failed:      counts[model.AssetStatusFailed],
	}
	if total > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.Published) / float64(total) * 100))
	}
	return stats
}
