package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
)

// textSink prints ranked results as fixed-width lines.
type textSink struct {
	w io.Writer
}

// compile-time interface assertion
var _ ports.RenderSink = textSink{}

func (s textSink) RenderRanked(_ context.Context, r domain.Result) error {
	header := string(r.Strategy)
	if r.Stats.Description != "" {
		header += " · " + r.Stats.Description
	}
	fmt.Fprintln(s.w, header)
	if len(r.Stats.Genres) > 0 {
		fmt.Fprintf(s.w, "genres: %s\n", strings.Join(r.Stats.Genres, ", "))
	}
	if r.Stats.Widened {
		fmt.Fprintf(s.w, "(widened to years around %d)\n", r.Stats.SearchedYear)
	}
	if r.Message != "" {
		fmt.Fprintln(s.w, r.Message)
	}

	if len(r.Pairs) > 0 {
		for i, p := range r.Pairs {
			fmt.Fprintf(s.w, "%2d. THEN %s\n", i+1, trackLine(p.Then))
			for _, c := range p.Now {
				if c.Track == nil {
					continue
				}
				fmt.Fprintf(s.w, "      NOW %s  sim %.2f\n", trackLine(*c.Track), c.Similarity)
			}
		}
		return nil
	}

	for i, c := range r.Candidates {
		fmt.Fprintf(s.w, "%2d. %s\n", i+1, candidateLine(c))
	}
	return nil
}

func candidateLine(c domain.ScoredCandidate) string {
	if c.Track == nil {
		if c.Artist == nil {
			return ""
		}
		line := fmt.Sprintf("%-40s pop %3d", truncate(c.Artist.Name, 40), c.Artist.Popularity)
		if len(c.Artist.Genres) > 0 {
			line += "  " + truncate(strings.Join(c.Artist.Genres, ", "), 50)
		}
		return line
	}

	line := fmt.Sprintf("%s  pop %3d", trackLine(*c.Track), c.Track.Popularity)
	if c.HasFollowerData || c.Obscurity > 0 {
		line += fmt.Sprintf("  obscurity %3d", c.Obscurity)
	}
	if c.MoodFit > 0 {
		line += fmt.Sprintf("  fit %.2f", c.MoodFit)
	}
	if c.Similarity > 0 {
		line += fmt.Sprintf("  taste %.2f", c.Similarity)
	}
	return line
}

func trackLine(t domain.Track) string {
	year := "----"
	if y := t.Album.ReleaseYear(); y > 0 {
		year = fmt.Sprintf("%d", y)
	}
	return fmt.Sprintf("%-32s %-24s %s", truncate(t.Name, 32), truncate(t.ArtistNames(), 24), year)
}

func renderYears(w io.Writer, hist domain.YearHistogram) {
	if len(hist) == 0 {
		fmt.Fprintln(w, "No dated tracks in your library yet.")
		return
	}
	for _, b := range hist {
		fmt.Fprintf(w, "%d  %4d\n", b.Year, b.Count)
	}
}

func renderTaste(w io.Writer, p domain.TasteProfile) {
	fmt.Fprintf(w, "Median popularity:    %.0f\n", p.MedianPopularity)
	fmt.Fprintf(w, "Obscurity preference: %.0f\n", p.ObscurityPreference)
	fmt.Fprintf(w, "Recency preference:   %.2f\n", p.RecencyPreference)
	fmt.Fprintf(w, "Genre diversity:      %d\n", p.GenreDiversity)
	fmt.Fprintf(w, "Leading genre share:  %.0f%%\n", p.TopGenreStrength*100)
	if len(p.TopGenres) > 0 {
		fmt.Fprintf(w, "Top genres:\n")
		for _, g := range p.TopGenres {
			fmt.Fprintf(w, "  - %s\n", g)
		}
	}
}

func renderArtists(w io.Writer, artists []domain.Artist) {
	for _, a := range artists {
		fmt.Fprintf(w, "%-22s  %-32s pop %3d\n", a.ID, truncate(a.Name, 32), a.Popularity)
	}
}

func renderSettings(w io.Writer, s domain.Settings) {
	fmt.Fprintf(w, "Popularity bias:     %d (ceiling %d)\n", s.PopularityBias, s.PopularityCeiling())
	fmt.Fprintf(w, "Freshness days:      %d\n", s.FreshnessDays)
	fmt.Fprintf(w, "Min obscurity score: %d\n", s.ObscurityMinScore)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
