// Package scoring holds the pure scoring functions used to rank candidates.
// Nothing here performs I/O or mutates shared state.
package scoring

import (
	"math"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// ObscurityWeights blend inverted popularity with inverted follower reach.
type ObscurityWeights struct {
	Popularity float64
	Followers  float64
}

// DefaultObscurityWeights: popularity 0.7, followers 0.3.
func DefaultObscurityWeights() ObscurityWeights {
	return ObscurityWeights{Popularity: 0.7, Followers: 0.3}
}

// ObscurityScore is the result for one track.
type ObscurityScore struct {
	Score           int // 0..100, higher is more obscure
	FollowerScore   int // 0..100, 50 when unknown
	HasFollowerData bool
}

// FollowerRange is the min/max follower count across a candidate set,
// considering only artists with a positive count.
type FollowerRange struct {
	Min, Max int
	ok       bool
}

// NewFollowerRange computes the range over the given artists.
func NewFollowerRange(artists map[string]domain.Artist) FollowerRange {
	r := FollowerRange{}
	for _, a := range artists {
		if a.Followers <= 0 {
			continue
		}
		if !r.ok || a.Followers < r.Min {
			r.Min = a.Followers
		}
		if !r.ok || a.Followers > r.Max {
			r.Max = a.Followers
		}
		r.ok = true
	}
	return r
}

// followerScore inverts the min-max normalized follower count: the least
// followed artist scores 100, the most followed 0.
func (r FollowerRange) followerScore(followers int) int {
	if !r.ok || r.Max <= r.Min {
		return 50
	}
	norm := float64(followers-r.Min) / float64(r.Max-r.Min)
	return int(math.Round(clamp01(1-norm) * 100))
}

// ScoreObscurity scores a track using its primary artist's followers relative
// to rng. Missing artist data yields a neutral follower score of 50.
func ScoreObscurity(t domain.Track, artists map[string]domain.Artist, rng FollowerRange, w ObscurityWeights) ObscurityScore {
	fs := 50
	has := false
	if ref, ok := t.PrimaryArtist(); ok {
		if a, found := artists[ref.ID]; found && a.Followers > 0 {
			fs = rng.followerScore(a.Followers)
			has = true
		}
	}

	raw := w.Popularity*float64(100-t.Popularity) + w.Followers*float64(fs)
	return ObscurityScore{
		Score:           int(math.Round(math.Max(0, math.Min(100, raw)))),
		FollowerScore:   fs,
		HasFollowerData: has,
	}
}

// Obscurity scores every track against the follower range of the whole set.
// Results are index-aligned with tracks.
func Obscurity(tracks []domain.Track, artists map[string]domain.Artist, w ObscurityWeights) []ObscurityScore {
	rng := NewFollowerRange(artists)
	out := make([]ObscurityScore, len(tracks))
	for i, t := range tracks {
		out[i] = ScoreObscurity(t, artists, rng, w)
	}
	return out
}

// ArtistIDs collects every credited artist id across tracks, first occurrence order.
func ArtistIDs(tracks []domain.Track) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range tracks {
		for _, a := range t.Artists {
			if a.ID == "" {
				continue
			}
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a.ID)
		}
	}
	return out
}

// PrimaryArtistIDs collects each track's primary artist id, deduplicated.
func PrimaryArtistIDs(tracks []domain.Track) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range tracks {
		ref, ok := t.PrimaryArtist()
		if !ok || ref.ID == "" {
			continue
		}
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}
		out = append(out, ref.ID)
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
