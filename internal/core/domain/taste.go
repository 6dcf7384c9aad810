package domain

import (
	"sort"
	"time"
)

// TasteProfile summarises the user's top tracks and artists.
type TasteProfile struct {
	MedianPopularity    float64
	ObscurityPreference float64 // 100 - MedianPopularity
	RecencyPreference   float64 // 0..1 over RecencyFloorYear..current year
	TopGenres           []string
	GenreDiversity      int
	TopGenreStrength    float64 // share of top artists carrying the leading genre
	TrackCount          int
	ArtistCount         int
	BuiltAt             time.Time
}

// RecencyFloorYear anchors the recency scale at 0.
const RecencyFloorYear = 1980

// YearCount is one bar of a YearHistogram.
type YearCount struct {
	Year  int
	Count int
}

// YearHistogram is sorted by count descending, then year descending.
type YearHistogram []YearCount

// BuildYearHistogram buckets saved tracks by release year, falling back to
// the save year. Years outside (1900, now.Year()] are ignored.
func BuildYearHistogram(saved []SavedTrack, now time.Time) YearHistogram {
	counts := make(map[int]int)
	current := now.Year()
	for _, s := range saved {
		y := s.Year()
		if y > 1900 && y <= current {
			counts[y]++
		}
	}

	out := make(YearHistogram, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Year > out[j].Year
	})
	return out
}

// Top returns at most n buckets.
func (h YearHistogram) Top(n int) YearHistogram {
	if n < 0 || n >= len(h) {
		return h
	}
	return h[:n]
}
