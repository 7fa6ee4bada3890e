package services

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tunestream/internal/models"
)

// statsSource is the record-store surface the stats service needs
type statsSource interface {
	CatalogStats(ctx context.Context) (models.CatalogStats, error)
}

const statsCacheKey = "catalog_stats"

// StatsService serves catalog-wide counts, memoized in process so the
// aggregation does not hit the store on every request.
type StatsService struct {
	store statsSource
	local *gocache.Cache
}

// NewStatsService creates a new stats service with a 30 second
// memoization window
func NewStatsService(store statsSource) *StatsService {
	return &StatsService{
		store: store,
		local: gocache.New(30*time.Second, time.Minute),
	}
}

// Stats returns the current catalog stats, from the local cache when fresh
func (s *StatsService) Stats(ctx context.Context) (models.CatalogStats, error) {
	if cached, found := s.local.Get(statsCacheKey); found {
		if stats, ok := cached.(models.CatalogStats); ok {
			return stats, nil
		}
	}

	stats, err := s.store.CatalogStats(ctx)
	if err != nil {
		return models.CatalogStats{}, err
	}

	s.local.Set(statsCacheKey, stats, gocache.DefaultExpiration)
	return stats, nil
}
