package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

var fixedNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func track(id, artistID string, pop int, release string) domain.Track {
	return domain.Track{
		ID:         id,
		Name:       "Track " + id,
		Artists:    []domain.ArtistRef{{ID: artistID, Name: "Artist " + artistID}},
		Album:      domain.Album{ID: "al-" + id, Name: "Album " + id, ReleaseDate: release, ReleaseDatePrecision: domain.PrecisionDay, Type: "album"},
		Popularity: pop,
	}
}

func TestScoreObscurity(t *testing.T) {
	artists := map[string]domain.Artist{
		"small": {ID: "small", Followers: 1_000},
		"mid":   {ID: "mid", Followers: 50_500},
		"big":   {ID: "big", Followers: 100_000},
		"none":  {ID: "none", Followers: 0},
	}
	rng := NewFollowerRange(artists)
	require.Equal(t, 1_000, rng.Min)
	require.Equal(t, 100_000, rng.Max)

	tests := []struct {
		name      string
		track     domain.Track
		wantScore int
		wantFS    int
		wantData  bool
	}{
		{"least followed artist", track("t1", "small", 80, ""), 44, 100, true},
		{"most followed artist", track("t2", "big", 80, ""), 14, 0, true},
		{"mid followed artist", track("t3", "mid", 0, ""), 85, 50, true},
		{"unknown artist", track("t4", "ghost", 80, ""), 29, 50, false},
		{"zero followers treated as unknown", track("t5", "none", 20, ""), 71, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreObscurity(tt.track, artists, rng, DefaultObscurityWeights())
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantFS, got.FollowerScore)
			assert.Equal(t, tt.wantData, got.HasFollowerData)
		})
	}
}

func TestScoreObscurityDegenerateRange(t *testing.T) {
	artists := map[string]domain.Artist{"a": {ID: "a", Followers: 10}}
	got := ScoreObscurity(track("t", "a", 100, ""), artists, NewFollowerRange(artists), DefaultObscurityWeights())
	assert.Equal(t, 50, got.FollowerScore)
	assert.Equal(t, 15, got.Score)
	assert.True(t, got.HasFollowerData)
}

func TestArtistIDs(t *testing.T) {
	a := track("1", "x", 0, "")
	a.Artists = append(a.Artists, domain.ArtistRef{ID: "y"})
	b := track("2", "y", 0, "")
	c := track("3", "x", 0, "")

	assert.Equal(t, []string{"x", "y"}, ArtistIDs([]domain.Track{a, b, c}))
	assert.Equal(t, []string{"x", "y"}, PrimaryArtistIDs([]domain.Track{a, b, c}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 2, 3}))
}

func TestRankGenres(t *testing.T) {
	freq := map[string]int{"indie": 3, "rock": 3, "jazz": 1, "soul": 2}
	assert.Equal(t, []string{"indie", "rock", "soul"}, RankGenres(freq, 3))
	assert.Len(t, RankGenres(freq, 10), 4)
}

func TestBuildTasteProfile(t *testing.T) {
	tracks := []domain.Track{
		track("1", "a", 40, "2000-01-01"),
		track("2", "a", 0, "2010-01-01"),
		track("3", "b", 60, "2020-01-01"),
	}
	artists := []domain.Artist{
		{ID: "a", Genres: []string{"indie", "rock"}},
		{ID: "b", Genres: []string{"indie"}},
		{ID: "c"},
		{ID: "d", Genres: []string{"jazz"}},
	}

	p, err := BuildTasteProfile(tracks, artists, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.MedianPopularity, "zero popularity is excluded")
	assert.Equal(t, 50.0, p.ObscurityPreference)
	assert.InDelta(t, 30.0/45.0, p.RecencyPreference, 1e-9)
	assert.Equal(t, []string{"indie", "jazz", "rock"}, p.TopGenres)
	assert.Equal(t, 3, p.GenreDiversity)
	assert.InDelta(t, 0.5, p.TopGenreStrength, 1e-9)
	assert.Equal(t, 3, p.TrackCount)
	assert.Equal(t, fixedNow, p.BuiltAt)
}

func TestBuildTasteProfileDefaults(t *testing.T) {
	_, err := BuildTasteProfile(nil, nil, fixedNow)
	assert.ErrorIs(t, err, ErrNoTopTracks)

	p, err := BuildTasteProfile([]domain.Track{track("1", "a", 0, "")}, nil, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 50.0, p.MedianPopularity)
	assert.Equal(t, 0.5, p.RecencyPreference)
	assert.Empty(t, p.TopGenres)
	assert.Zero(t, p.TopGenreStrength)
}

func TestTasteSimilarity(t *testing.T) {
	profile := domain.TasteProfile{
		MedianPopularity:  40,
		RecencyPreference: 1,
		TopGenres:         []string{"indie", "rock", "jazz", "soul"},
	}
	artist := &domain.Artist{ID: "a", Genres: []string{"indie", "rock"}}

	tests := []struct {
		name    string
		track   domain.Track
		primary *domain.Artist
		want    float64
	}{
		{"all terms", track("1", "a", 40, "2025-01-01"), artist, 0.3 + 0.25 + 0.2},
		{"no artist", track("1", "a", 40, "2025-01-01"), nil, 0.3 + 0.2},
		{"no release date", track("1", "a", 40, ""), artist, 0.3 + 0.25},
		{"unknown popularity is 50", track("1", "a", 0, ""), nil, 0.3 * 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TasteSimilarity(tt.track, tt.primary, profile, fixedNow)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestMoodFitMonotonicInPrimaryGenres(t *testing.T) {
	base := track("1", "a", 50, "2015-01-01")
	profile := domain.MoodEnergetic.Profile()
	require.NotEmpty(t, profile.PrimaryGenres)

	prev := -1.0
	for n := 0; n <= len(profile.PrimaryGenres); n++ {
		artist := &domain.Artist{ID: "a", Genres: append([]string{"polka"}, profile.PrimaryGenres[:n]...)}
		got := MoodFit(base, artist, domain.MoodEnergetic).Total
		assert.GreaterOrEqual(t, got, prev, "adding %d primary genres lowered the score", n)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
}

func TestMoodFitFactors(t *testing.T) {
	tr := track("1", "a", 70, "")
	tr.Name = "Driving Power"
	tr.Album.Name = "Loud"

	t.Run("genre tiers", func(t *testing.T) {
		primary := MoodFit(tr, &domain.Artist{Genres: []string{"Post-Punk"}}, domain.MoodEnergetic)
		secondary := MoodFit(tr, &domain.Artist{Genres: []string{"grunge"}}, domain.MoodEnergetic)
		none := MoodFit(tr, nil, domain.MoodEnergetic)
		assert.Equal(t, 1.0, primary.Genre)
		assert.Equal(t, 0.7, secondary.Genre)
		assert.Equal(t, 0.0, none.Genre)
	})

	t.Run("moods without context score neutrally", func(t *testing.T) {
		got := MoodFit(tr, nil, domain.MoodEnergetic)
		assert.Equal(t, 0.5, got.Popularity)
		assert.Equal(t, 0.5, got.Era)
	})

	t.Run("semantic counts whole words", func(t *testing.T) {
		got := MoodFit(tr, nil, domain.MoodEnergetic)
		p := domain.MoodEnergetic.Profile()
		// "driving" and "power" appear in both keywords and indicators, "loud" only in indicators.
		assert.InDelta(t, 5.0/float64(len(p.Keywords)+len(p.Indicators)), got.Semantic, 1e-9)
	})

	t.Run("album name indicators raise album fit", func(t *testing.T) {
		got := MoodFit(tr, nil, domain.MoodEnergetic)
		assert.InDelta(t, 0.7, got.Album, 1e-9)
	})

	t.Run("threshold", func(t *testing.T) {
		assert.True(t, PassesMood(MoodThreshold))
		assert.False(t, PassesMood(0.049))
	})
}

func TestYearGapScore(t *testing.T) {
	tests := []struct {
		gap  int
		want float64
	}{
		{0, 0.8},
		{2, 0.8},
		{-2, 0.8},
		{3, 0.95},
		{12, 0.5},
		{22, 0},
		{40, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, YearGapScore(tt.gap), 1e-9, "gap %d", tt.gap)
	}
}

func TestAnalogSimilarity(t *testing.T) {
	then := track("then", "a", 60, "2005-01-01")
	now := track("now", "b", 40, "2024-01-01")
	thenArtist := &domain.Artist{Genres: []string{"indie", "rock", "shoegaze", "dream pop"}}
	nowArtist := &domain.Artist{Genres: []string{"indie", "shoegaze"}}

	got := AnalogSimilarity(then, now, thenArtist, nowArtist, 2025)
	want := 0.6*0.5 + 0.2*0.8 + 0.2*(1-17.0/20)
	assert.InDelta(t, want, got, 1e-9)

	noArtist := AnalogSimilarity(then, now, nil, nowArtist, 2025)
	assert.InDelta(t, want-0.3, noArtist, 1e-9)

	undated := AnalogSimilarity(track("x", "a", 0, ""), track("y", "b", 0, ""), nil, nil, 2025)
	assert.InDelta(t, 0.2+0.2*YearGapScore(15), undated, 1e-9)
}
