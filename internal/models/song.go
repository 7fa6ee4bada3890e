package models

import "time"

// Genre is the closed set of song genres
type Genre string

const (
	GenrePop        Genre = "Pop"
	GenreRock       Genre = "Rock"
	GenreHipHop     Genre = "Hip Hop"
	GenreElectronic Genre = "Electronic"
	GenreClassical  Genre = "Classical"
	GenreJazz       Genre = "Jazz"
)

// AllGenres lists every valid genre in a stable order
var AllGenres = []Genre{
	GenrePop,
	GenreRock,
	GenreHipHop,
	GenreElectronic,
	GenreClassical,
	GenreJazz,
}

// IsValidGenre reports whether g is a member of the closed genre set
func IsValidGenre(g string) bool {
	for _, genre := range AllGenres {
		if string(genre) == g {
			return true
		}
	}
	return false
}

// Song represents a song in the catalog.
// TrendingScore is derived: it is always the output of the score engine
// applied to the signal fields at some past instant, never authored directly.
type Song struct {
	SongID                string             `bson:"song_id" json:"song_id"`
	Title                 string             `bson:"title" json:"title"`
	Artist                string             `bson:"artist" json:"artist"`
	Album                 string             `bson:"album" json:"album"`
	Genre                 Genre              `bson:"genre" json:"genre"`
	PlayCount             int64              `bson:"play_count" json:"play_count"`
	UserRating            float64            `bson:"user_rating" json:"user_rating"` // bounded [0.0, 5.0]
	SocialMediaShares     int64              `bson:"social_media_shares" json:"social_media_shares"`
	GeographicPopularity  map[string]float64 `bson:"geographic_popularity" json:"geographic_popularity"`
	LastPlayedTimestamp   time.Time          `bson:"last_played_timestamp" json:"last_played_timestamp"`
	TrendingScore         float64            `bson:"trending_score" json:"trending_score"`
	IsActive              bool               `bson:"is_active" json:"is_active"`
}

// SongSignals is the projection of a song down to the fields the score
// engine needs. The recompute pipeline streams these instead of full
// documents to bound memory on large catalogs.
type SongSignals struct {
	SongID               string             `bson:"song_id"`
	PlayCount            int64              `bson:"play_count"`
	UserRating           float64            `bson:"user_rating"`
	SocialMediaShares    int64              `bson:"social_media_shares"`
	GeographicPopularity map[string]float64 `bson:"geographic_popularity"`
	LastPlayedTimestamp  time.Time          `bson:"last_played_timestamp"`
}

// ScoreUpdate is a single "set trending score" operation keyed by song ID
type ScoreUpdate struct {
	SongID string
	Score  float64
}

// CatalogStats holds catalog-wide counts for the stats endpoint
type CatalogStats struct {
	TotalSongs  int64            `json:"total_songs"`
	ActiveSongs int64            `json:"active_songs"`
	ByGenre     map[string]int64 `json:"by_genre"`
}
