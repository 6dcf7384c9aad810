package scoring

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// TopGenreCount is how many genres a taste profile keeps.
const TopGenreCount = 8

// ErrNoTopTracks is returned when a profile cannot be built.
var ErrNoTopTracks = errors.New("no top tracks to build a taste profile from")

// Median of values; the mean of the two middle values for even counts.
// Returns 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// GenreFrequency counts genre tags across artists.
func GenreFrequency(artists []domain.Artist) map[string]int {
	freq := make(map[string]int)
	for _, a := range artists {
		for _, g := range a.Genres {
			freq[g]++
		}
	}
	return freq
}

// RankGenres returns up to n genres by descending frequency, ties by name.
func RankGenres(freq map[string]int, n int) []string {
	genres := make([]string, 0, len(freq))
	for g := range freq {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool {
		if freq[genres[i]] != freq[genres[j]] {
			return freq[genres[i]] > freq[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if n >= 0 && len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

// GenreOverlap counts genres of a present in b.
func GenreOverlap(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, g := range b {
		set[g] = struct{}{}
	}
	n := 0
	for _, g := range a {
		if _, ok := set[g]; ok {
			n++
		}
	}
	return n
}

// ReleaseRecency maps a release year onto 0..1 between RecencyFloorYear and now.
func ReleaseRecency(year int, now time.Time) float64 {
	span := now.Year() - domain.RecencyFloorYear
	if span <= 0 {
		return 1
	}
	return clamp01(float64(year-domain.RecencyFloorYear) / float64(span))
}

// BuildTasteProfile derives the profile from the first pages of the user's
// top tracks and top artists.
func BuildTasteProfile(topTracks []domain.Track, topArtists []domain.Artist, now time.Time) (domain.TasteProfile, error) {
	if len(topTracks) == 0 {
		return domain.TasteProfile{}, ErrNoTopTracks
	}

	var pops, years []float64
	for _, t := range topTracks {
		if t.Popularity > 0 {
			pops = append(pops, float64(t.Popularity))
		}
		if y := t.Album.ReleaseYear(); y > 1900 {
			years = append(years, float64(y))
		}
	}

	median := 50.0
	if len(pops) > 0 {
		median = Median(pops)
	}

	recency := 0.5
	if len(years) > 0 {
		recency = ReleaseRecency(int(math.Round(Median(years))), now)
	}

	freq := GenreFrequency(topArtists)
	maxFreq := 0
	for _, n := range freq {
		maxFreq = max(maxFreq, n)
	}
	strength := 0.0
	if len(topArtists) > 0 {
		strength = float64(maxFreq) / float64(len(topArtists))
	}

	return domain.TasteProfile{
		MedianPopularity:    median,
		ObscurityPreference: 100 - median,
		RecencyPreference:   recency,
		TopGenres:           RankGenres(freq, TopGenreCount),
		GenreDiversity:      len(freq),
		TopGenreStrength:    strength,
		TrackCount:          len(topTracks),
		ArtistCount:         len(topArtists),
		BuiltAt:             now,
	}, nil
}

// TasteSimilarity = 0.3 popularity alignment + 0.5 genre alignment + 0.2
// recency alignment. A nil primary artist or unknown release date
// contributes 0 to its term. Popularity 0 is treated as unknown (50).
func TasteSimilarity(t domain.Track, primary *domain.Artist, p domain.TasteProfile, now time.Time) float64 {
	pop := float64(t.Popularity)
	if pop == 0 {
		pop = 50
	}
	score := 0.3 * clamp01(1-math.Abs(pop-p.MedianPopularity)/100)

	if primary != nil && len(p.TopGenres) > 0 {
		score += 0.5 * float64(GenreOverlap(primary.Genres, p.TopGenres)) / float64(len(p.TopGenres))
	}

	if y := t.Album.ReleaseYear(); y != 0 {
		score += 0.2 * clamp01(1-math.Abs(ReleaseRecency(y, now)-p.RecencyPreference))
	}
	return score
}
