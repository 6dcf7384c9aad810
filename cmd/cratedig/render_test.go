package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

func track(id, name, artist, release string, pop int) *domain.Track {
	return &domain.Track{
		ID:         id,
		Name:       name,
		Artists:    []domain.ArtistRef{{ID: "a-" + id, Name: artist}},
		Album:      domain.Album{ReleaseDate: release, ReleaseDatePrecision: domain.PrecisionDay},
		Popularity: pop,
	}
}

func TestTextSink_Candidates(t *testing.T) {
	var buf bytes.Buffer
	result := domain.Result{
		Strategy: domain.StrategyGenre,
		Stats:    domain.Stats{Description: "Median pop: 40", Genres: []string{"slowcore", "dream pop"}},
		Candidates: []domain.ScoredCandidate{
			{Track: track("t1", "Quiet Song", "Low Band", "1994-05-01", 22), Obscurity: 81, HasFollowerData: true},
			{Artist: &domain.Artist{ID: "a2", Name: "Other Band", Genres: []string{"sadcore"}, Popularity: 15}},
		},
	}

	require.NoError(t, textSink{w: &buf}.RenderRanked(context.Background(), result))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "genre · Median pop: 40", lines[0])
	assert.Equal(t, "genres: slowcore, dream pop", lines[1])
	assert.Contains(t, lines[2], " 1. Quiet Song")
	assert.Contains(t, lines[2], "Low Band")
	assert.Contains(t, lines[2], "1994")
	assert.Contains(t, lines[2], "obscurity  81")
	assert.Contains(t, lines[3], " 2. Other Band")
	assert.Contains(t, lines[3], "sadcore")
}

func TestTextSink_Pairs(t *testing.T) {
	var buf bytes.Buffer
	result := domain.Result{
		Strategy: domain.StrategyTimeMachine,
		Stats:    domain.Stats{Description: "1 Then → Now pairs from 2009", SearchedYear: 2009, Widened: true},
		Pairs: []domain.Pair{{
			Then: *track("old", "Old Song", "Then Band", "2009-01-01", 50),
			Now:  []domain.ScoredCandidate{{Track: track("new", "New Song", "Now Band", "2024-03-01", 30), Similarity: 0.75}},
		}},
	}

	require.NoError(t, textSink{w: &buf}.RenderRanked(context.Background(), result))
	out := buf.String()

	assert.Contains(t, out, "(widened to years around 2009)")
	assert.Contains(t, out, " 1. THEN Old Song")
	assert.Contains(t, out, "NOW New Song")
	assert.Contains(t, out, "sim 0.75")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "exactly ten", n: 11, want: "exactly ten"},
		{in: "a much longer title", n: 10, want: "a much ..."},
		{in: "línea\nnueva", n: 20, want: "línea nueva"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n))
	}
}

func TestRenderSettings(t *testing.T) {
	var buf bytes.Buffer
	renderSettings(&buf, domain.DefaultSettings())
	assert.Contains(t, buf.String(), "Popularity bias:     35 (ceiling 65)")
}
