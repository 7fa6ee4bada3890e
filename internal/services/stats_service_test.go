package services

import (
	"context"
	"testing"

	"tunestream/internal/models"
)

type fakeStatsSource struct {
	calls int
	stats models.CatalogStats
}

func (f *fakeStatsSource) CatalogStats(ctx context.Context) (models.CatalogStats, error) {
	f.calls++
	return f.stats, nil
}

// TestStatsMemoized verifies repeated reads within the memoization
// window hit the store only once
func TestStatsMemoized(t *testing.T) {
	source := &fakeStatsSource{
		stats: models.CatalogStats{
			TotalSongs:  120,
			ActiveSongs: 100,
			ByGenre:     map[string]int64{"Pop": 60, "Rock": 60},
		},
	}
	service := NewStatsService(source)
	ctx := context.Background()

	first, err := service.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	second, err := service.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if source.calls != 1 {
		t.Errorf("Expected 1 store call, got %d", source.calls)
	}
	if first.TotalSongs != second.TotalSongs || first.ActiveSongs != second.ActiveSongs {
		t.Errorf("Expected identical memoized stats, got %+v and %+v", first, second)
	}
	if second.ByGenre["Pop"] != 60 {
		t.Errorf("Expected 60 Pop songs, got %d", second.ByGenre["Pop"])
	}
}
