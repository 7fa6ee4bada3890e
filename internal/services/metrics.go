package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheErrors *prometheus.CounterVec

	// Recompute pipeline metrics
	RecomputeDuration prometheus.Histogram
	RecomputeBatches  prometheus.Counter
	SongsRescored     prometheus.Counter
	RecomputeFailures prometheus.Counter

	// Warm refresh metrics
	WarmRefreshWrites prometheus.Counter
}

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tunestream_cache_hits_total",
			Help: "Total number of trending cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tunestream_cache_misses_total",
			Help: "Total number of trending cache misses",
		}),
		CacheErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tunestream_cache_errors_total",
			Help: "Total number of swallowed cache errors by operation",
		}, []string{"operation"}),

		RecomputeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tunestream_recompute_duration_seconds",
			Help:    "Full-catalog recompute duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		RecomputeBatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tunestream_recompute_batches_total",
			Help: "Total number of bulk score-update batches flushed",
		}),
		SongsRescored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tunestream_songs_rescored_total",
			Help: "Total number of songs whose trending score was updated",
		}),
		RecomputeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tunestream_recompute_failures_total",
			Help: "Total number of failed recompute runs",
		}),

		WarmRefreshWrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tunestream_warm_refresh_writes_total",
			Help: "Total number of cache entries written by the warm refresher",
		}),
	}
}
