package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"tunestream/internal/models"
)

var generatorArtists = []string{
	"Taylor Swift", "Drake", "Ed Sheeran", "Ariana Grande",
	"The Weeknd", "Billie Eilish", "Post Malone", "Bruno Mars",
}

// GenerateSongs produces n synthetic songs with realistic signal
// distributions for seeding and load testing. Scores start at zero;
// the recompute pipeline authors them afterwards.
func GenerateSongs(n int) []models.Song {
	songs := make([]models.Song, 0, n)
	now := time.Now().UTC()

	for i := 0; i < n; i++ {
		songs = append(songs, models.Song{
			SongID:            uuid.New().String(),
			Title:             fmt.Sprintf("Song %d", rand.Intn(10000)+1),
			Artist:            generatorArtists[rand.Intn(len(generatorArtists))],
			Album:             fmt.Sprintf("Album %d", rand.Intn(500)+1),
			Genre:             models.AllGenres[rand.Intn(len(models.AllGenres))],
			PlayCount:         int64(rand.Intn(999001) + 1000),
			UserRating:        float64(rand.Intn(41)+10) / 10.0, // 1.0 - 5.0 in 0.1 steps
			SocialMediaShares: int64(rand.Intn(99901) + 100),
			GeographicPopularity: map[string]float64{
				"IN":     float64(rand.Intn(99001) + 1000),
				"US":     float64(rand.Intn(99001) + 1000),
				"UK":     float64(rand.Intn(99001) + 1000),
				"Others": float64(rand.Intn(99001) + 1000),
			},
			LastPlayedTimestamp: now.AddDate(0, 0, -rand.Intn(31)),
			TrendingScore:       0,
			IsActive:            true,
		})
	}

	return songs
}

// SimulateStreaming bumps the playback signals of the given songs in
// place, imitating ongoing streaming activity between recomputes.
func SimulateStreaming(songs []models.Song) []models.Song {
	for i := range songs {
		songs[i].PlayCount += int64(rand.Intn(40001) + 10000)
		songs[i].SocialMediaShares += int64(rand.Intn(40001) + 10000)
		songs[i].LastPlayedTimestamp = songs[i].LastPlayedTimestamp.AddDate(0, 0, -(rand.Intn(5) + 1))
	}
	return songs
}
