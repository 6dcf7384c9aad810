package scoring

import (
	"math"
	"regexp"
	"strings"
	"sync"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

// MoodThreshold is the minimum combined score for a track to count as fitting.
const MoodThreshold = 0.05

const (
	moodWeightGenre      = 0.40
	moodWeightPopularity = 0.25
	moodWeightSemantic   = 0.20
	moodWeightEra        = 0.10
	moodWeightAlbum      = 0.05
)

// MoodBreakdown exposes each factor alongside the combined score.
type MoodBreakdown struct {
	Genre      float64
	Popularity float64
	Semantic   float64
	Era        float64
	Album      float64
	Total      float64
}

// PassesMood reports whether a combined score clears MoodThreshold.
func PassesMood(total float64) bool {
	return total >= MoodThreshold
}

// MoodFit scores a track against the mood taxonomy. primary may be nil when
// the artist could not be resolved; the genre factor is then 0.
func MoodFit(t domain.Track, primary *domain.Artist, m domain.Mood) MoodBreakdown {
	profile := m.Profile()
	ctx, hasCtx := domain.ContextFor(m)

	b := MoodBreakdown{
		Genre:      genreMatch(primary, profile),
		Popularity: popularityContext(t.Popularity, ctx, hasCtx),
		Semantic:   semanticMatch(t, m, profile),
		Era:        eraMatch(t.Album.ReleaseYear(), ctx, hasCtx),
		Album:      albumContext(t.Album, profile, ctx, hasCtx),
	}
	b.Total = math.Min(1,
		b.Genre*moodWeightGenre+
			b.Popularity*moodWeightPopularity+
			b.Semantic*moodWeightSemantic+
			b.Era*moodWeightEra+
			b.Album*moodWeightAlbum)
	return b
}

// genreMatch takes the best tier hit across the artist's genres:
// primary 1.0, secondary 0.7, indicator 0.4. Matching is by substring.
func genreMatch(primary *domain.Artist, p domain.MoodProfile) float64 {
	if primary == nil {
		return 0
	}
	best := 0.0
	for _, g := range primary.Genres {
		lg := strings.ToLower(g)
		if containsAny(lg, p.PrimaryGenres) {
			return 1.0
		}
		if containsAny(lg, p.SecondaryGenres) {
			best = math.Max(best, 0.7)
		}
		if containsAny(lg, p.Indicators) {
			best = math.Max(best, 0.4)
		}
	}
	return best
}

func popularityContext(pop int, c domain.ContextProfile, ok bool) float64 {
	switch {
	case !ok:
		return 0.5
	case c.OptimalPopularity.Contains(pop):
		return 1.0
	case c.AcceptablePopularity.Contains(pop):
		return 0.6
	default:
		return 0.2
	}
}

func eraMatch(year int, c domain.ContextProfile, ok bool) float64 {
	if !ok || year == 0 {
		return 0.5
	}
	for _, b := range c.PeakEras {
		if b.Contains(year) {
			return 1.0
		}
	}
	for _, b := range c.SecondaryEras {
		if b.Contains(year) {
			return 0.7
		}
	}
	return 0.3
}

func albumContext(a domain.Album, p domain.MoodProfile, c domain.ContextProfile, ok bool) float64 {
	score := 0.5
	if ok {
		if fit, found := c.AlbumTypeFit[a.Type]; found {
			score = fit
		}
	}
	name := strings.ToLower(a.Name)
	for _, ind := range p.Indicators {
		if strings.Contains(name, ind) {
			score = math.Min(score+0.2, 1)
		}
	}
	return score
}

// semanticMatch is the fraction of keyword and indicator patterns found as
// whole words in the track, album and primary artist names.
func semanticMatch(t domain.Track, m domain.Mood, p domain.MoodProfile) float64 {
	patterns := moodPatterns(m, p)
	if len(patterns) == 0 {
		return 0
	}
	primaryName := ""
	if ref, ok := t.PrimaryArtist(); ok {
		primaryName = ref.Name
	}
	text := strings.ToLower(t.Name + " " + t.Album.Name + " " + primaryName)

	hits := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			hits++
		}
	}
	return float64(hits) / float64(len(patterns))
}

var patternCache sync.Map // domain.Mood -> []*regexp.Regexp

func moodPatterns(m domain.Mood, p domain.MoodProfile) []*regexp.Regexp {
	if v, ok := patternCache.Load(m); ok {
		return v.([]*regexp.Regexp)
	}
	words := append(append([]string(nil), p.Keywords...), p.Indicators...)
	out := make([]*regexp.Regexp, 0, len(words))
	for _, w := range words {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	patternCache.Store(m, out)
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
