package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tunestream/internal/database"
	"tunestream/internal/models"
)

// SongStore is the persistent record store for the song catalog,
// backed by the songs collection in MongoDB.
type SongStore struct {
	collection *mongo.Collection
}

// NewSongStore creates a new song store
func NewSongStore(mongodb *database.MongoDB) *SongStore {
	return &SongStore{
		collection: mongodb.Collection(database.CollectionSongs),
	}
}

// TopTrending returns songs sorted by descending trending score with
// skip/limit pagination, optionally filtered by genre ("" means all).
func (s *SongStore) TopTrending(ctx context.Context, limit, offset int, genre models.Genre) ([]models.Song, error) {
	filter := bson.M{}
	if genre != "" {
		filter["genre"] = genre
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "trending_score", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query trending songs: %w", err)
	}
	defer cursor.Close(ctx)

	var songs []models.Song
	if err := cursor.All(ctx, &songs); err != nil {
		return nil, fmt.Errorf("failed to decode trending songs: %w", err)
	}

	return songs, nil
}

// StreamSignals iterates the whole catalog projected down to the score
// signal fields, invoking fn for each song. An error from fn aborts the
// stream and is returned to the caller.
func (s *SongStore) StreamSignals(ctx context.Context, fn func(models.SongSignals) error) error {
	projection := bson.M{
		"song_id":               1,
		"last_played_timestamp": 1,
		"play_count":            1,
		"user_rating":           1,
		"social_media_shares":   1,
		"geographic_popularity": 1,
	}

	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		return fmt.Errorf("failed to open signal stream: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var signals models.SongSignals
		if err := cursor.Decode(&signals); err != nil {
			return fmt.Errorf("failed to decode song signals: %w", err)
		}
		if err := fn(signals); err != nil {
			return err
		}
	}

	if err := cursor.Err(); err != nil {
		return fmt.Errorf("signal stream failed: %w", err)
	}
	return nil
}

// BulkUpdateScores applies a batch of per-song score updates in one
// round trip. Returns the number of songs the batch matched.
func (s *SongStore) BulkUpdateScores(ctx context.Context, updates []models.ScoreUpdate) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(updates))
	for _, update := range updates {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"song_id": update.SongID}).
			SetUpdate(bson.M{"$set": bson.M{"trending_score": update.Score}}))
	}

	result, err := s.collection.BulkWrite(ctx, writes)
	if err != nil {
		return 0, fmt.Errorf("bulk score update failed: %w", err)
	}

	return result.MatchedCount, nil
}

// InsertMany inserts a batch of songs
func (s *SongStore) InsertMany(ctx context.Context, songs []models.Song) error {
	if len(songs) == 0 {
		return nil
	}

	documents := make([]interface{}, 0, len(songs))
	for _, song := range songs {
		documents = append(documents, song)
	}

	if _, err := s.collection.InsertMany(ctx, documents); err != nil {
		return fmt.Errorf("failed to insert songs: %w", err)
	}
	return nil
}

// BulkUpdatePlayback writes back the playback signals mutated by the
// streaming simulation, keyed by song_id.
func (s *SongStore) BulkUpdatePlayback(ctx context.Context, songs []models.Song) error {
	if len(songs) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(songs))
	for _, song := range songs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"song_id": song.SongID}).
			SetUpdate(bson.M{"$set": bson.M{
				"last_played_timestamp": song.LastPlayedTimestamp,
				"play_count":            song.PlayCount,
				"social_media_shares":   song.SocialMediaShares,
			}}))
	}

	if _, err := s.collection.BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("bulk playback update failed: %w", err)
	}
	return nil
}

// CatalogStats aggregates catalog-wide counts for the stats endpoint
func (s *SongStore) CatalogStats(ctx context.Context) (models.CatalogStats, error) {
	stats := models.CatalogStats{ByGenre: make(map[string]int64)}

	total, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, fmt.Errorf("failed to count songs: %w", err)
	}
	stats.TotalSongs = total

	active, err := s.collection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return stats, fmt.Errorf("failed to count active songs: %w", err)
	}
	stats.ActiveSongs = active

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$genre", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate genre counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Genre string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return stats, fmt.Errorf("failed to decode genre counts: %w", err)
	}
	for _, row := range rows {
		stats.ByGenre[row.Genre] = row.Count
	}

	return stats, nil
}
