package services

import (
	"math"
	"time"

	"tunestream/internal/models"
)

// Weight factors for the trending score. They conceptually sum to 1.0
// across the five signals.
const (
	WeightRecency    = 0.40
	WeightPlayCount  = 0.20
	WeightUserRating = 0.15 // applied to the raw [0,5] rating, max contribution 75
	WeightShares     = 0.15
	WeightGeographic = 0.10
)

// recencyHalfLifeHours is the half-life of the recency decay: a song
// loses half its recency contribution every 24 hours since last play.
const recencyHalfLifeHours = 24.0

// ScoreEngine computes trending scores. It is a pure function of the
// song signals and a reference time; it performs no I/O and holds no
// state, so recomputing the same inputs always yields the same score.
type ScoreEngine struct{}

// NewScoreEngine creates a new score engine
func NewScoreEngine() *ScoreEngine {
	return &ScoreEngine{}
}

// Score calculates the trending score for a song's signals at refTime.
// The result is the weighted sum of recency, play-count, rating,
// social-share and geographic-spread contributions, each scaled to a
// 0-100 band before weighting.
func (e *ScoreEngine) Score(signals models.SongSignals, refTime time.Time) float64 {
	recencyScore := e.recencyScore(signals.LastPlayedTimestamp, refTime)
	playCountScore := math.Log(float64(signals.PlayCount)+1) * WeightPlayCount * 100
	ratingScore := signals.UserRating * WeightUserRating * 100
	socialScore := math.Log(float64(signals.SocialMediaShares)+1) * WeightShares * 100
	geoScore := e.geographicScore(signals.GeographicPopularity)

	return recencyScore + playCountScore + ratingScore + socialScore + geoScore
}

// recencyScore applies exponential half-life decay to the hours elapsed
// since the song was last played. A reference time earlier than the
// last play counts as zero elapsed, i.e. maximal recency.
func (e *ScoreEngine) recencyScore(lastPlayed, refTime time.Time) float64 {
	hoursSincePlay := refTime.Sub(lastPlayed).Hours()
	if hoursSincePlay < 0 {
		hoursSincePlay = 0
	}

	return math.Exp2(-hoursSincePlay/recencyHalfLifeHours) * 100 * WeightRecency
}

// geographicScore rewards songs popular across many regions near the
// peak region, rather than total volume: each region contributes its
// popularity relative to the maximum, and the sum is averaged over the
// number of regions. An empty map contributes zero.
func (e *ScoreEngine) geographicScore(regionPopularity map[string]float64) float64 {
	if len(regionPopularity) == 0 {
		return 0
	}

	maxPop := 0.0
	for _, popularity := range regionPopularity {
		if popularity > maxPop {
			maxPop = popularity
		}
	}
	if maxPop == 0 {
		return 0
	}

	sum := 0.0
	for _, popularity := range regionPopularity {
		sum += (popularity / maxPop) * WeightGeographic * 100
	}

	return sum / float64(len(regionPopularity))
}
