package scoring

import (
	"math"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

const (
	defaultThenYear = 2010
	// yearGapGrace is the gap at or below which a pair gets the flat baseline.
	yearGapGrace    = 2
	yearGapBaseline = 0.8
	yearGapSpread   = 20.0
)

// AnalogSimilarity rates how well a modern track mirrors an older anchor:
// 0.6 genre overlap ratio + 0.2 popularity proximity + 0.2 year-gap score.
func AnalogSimilarity(then, now domain.Track, thenArtist, nowArtist *domain.Artist, currentYear int) float64 {
	genre := 0.0
	if thenArtist != nil && nowArtist != nil {
		genre = genreOverlapRatio(thenArtist.Genres, nowArtist.Genres)
	}

	popThen, popNow := popularityOr50(then.Popularity), popularityOr50(now.Popularity)
	popProximity := clamp01(1 - math.Abs(popThen-popNow)/100)

	thenYear := then.Album.ReleaseYear()
	if thenYear == 0 {
		thenYear = defaultThenYear
	}
	nowYear := now.Album.ReleaseYear()
	if nowYear == 0 {
		nowYear = currentYear
	}

	return 0.6*genre + 0.2*popProximity + 0.2*YearGapScore(nowYear-thenYear)
}

// YearGapScore is 0.8 for gaps up to two years, otherwise decays linearly
// from 1 to 0 as the gap grows from 2 to 22 years.
func YearGapScore(gap int) float64 {
	if gap < 0 {
		gap = -gap
	}
	if gap <= yearGapGrace {
		return yearGapBaseline
	}
	return math.Max(0, 1-float64(gap-yearGapGrace)/yearGapSpread)
}

// genreOverlapRatio is |a ∩ b| / max(|a|, |b|), 0 when either is empty.
func genreOverlapRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return float64(GenreOverlap(a, b)) / float64(max(len(a), len(b)))
}

func popularityOr50(p int) float64 {
	if p == 0 {
		return 50
	}
	return float64(p)
}
