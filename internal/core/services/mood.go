package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/core/scoring"
)

const (
	moodArtistQueries = 3
	moodArtistLimit   = 15
	moodYearQueries   = 2
	moodYearLimit     = 20
	moodGenreQueries  = 2
	moodGenreLimit    = 20
	moodResultCap     = 50
)

// runMood runs three independent sub-searches for the chosen mood, merges
// them, then keeps tracks whose mood fit clears the threshold.
func (d *Discovery) runMood(ctx context.Context, inv *invocation, req domain.Request, _ domain.Settings) error {
	mood, err := domain.ParseMood(string(req.Mood))
	if err != nil {
		return invalidRequest("Pick a mood first.")
	}
	profile := mood.Profile()

	inv.enter(domain.PhaseFetchingSeed)
	top, err := d.TopArtists(ctx)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return userError("No top artists found")
	}

	inv.enter(domain.PhaseSearching)
	var artistQ, yearQ, genreQ []string
	for _, a := range capped(profile.Artists, moodArtistQueries) {
		artistQ = append(artistQ, ports.ArtistQuery(a))
	}
	for _, y := range capped(profile.YearRanges, moodYearQueries) {
		yearQ = append(yearQ, ports.YearQuery(y))
	}
	for _, g := range capped(profile.SearchGenres, moodGenreQueries) {
		genreQ = append(genreQ, "genre:"+g)
	}

	var byArtist, byYear, byGenre []domain.Track
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { byArtist, err = d.searchTrackQueries(gctx, artistQ, moodArtistLimit); return })
	g.Go(func() (err error) { byYear, err = d.searchTrackQueries(gctx, yearQ, moodYearLimit); return })
	g.Go(func() (err error) { byGenre, err = d.searchTrackQueries(gctx, genreQ, moodGenreLimit); return })
	if err := g.Wait(); err != nil {
		return err
	}

	merged := capped(domain.DedupeTracks(append(append(byArtist, byYear...), byGenre...)), moodResultCap)

	inv.enter(domain.PhaseEnriching)
	artists := d.artists.Resolve(ctx, primaryIDs(merged))

	inv.enter(domain.PhaseScoring)
	cands := make([]domain.ScoredCandidate, 0, len(merged))
	for i := range merged {
		t := merged[i]
		fit := scoring.MoodFit(t, primaryOf(t, artists), mood)
		if !scoring.PassesMood(fit.Total) {
			continue
		}
		cands = append(cands, domain.ScoredCandidate{Track: &t, Artist: primaryOf(t, artists), Score: fit.Total, MoodFit: fit.Total})
	}
	inv.result.Candidates = rank(cands, noCeiling, moodResultCap)
	inv.result.Stats = domain.Stats{
		Description: fmt.Sprintf("%d %s tracks · %s", len(inv.result.Candidates), mood, profile.Description),
	}
	return nil
}

// searchTrackQueries runs queries one after another and concatenates their
// results. Only a credential failure stops it; other failures are skipped.
func (d *Discovery) searchTrackQueries(ctx context.Context, queries []string, limit int) ([]domain.Track, error) {
	var out []domain.Track
	for _, q := range queries {
		tracks, err := d.catalog.SearchTracks(ctx, ports.SearchOptions{Query: q, Limit: limit})
		if err != nil {
			if errors.Is(err, ports.ErrAuth) {
				return nil, err
			}
			d.log.Warn().Err(err).Str("query", q).Msg("track search failed")
			continue
		}
		out = append(out, tracks...)
	}
	return out, nil
}

func primaryIDs(tracks []domain.Track) []string {
	return scoring.PrimaryArtistIDs(tracks)
}

// primaryOf looks up the track's primary artist among resolved artists.
func primaryOf(t domain.Track, artists map[string]domain.Artist) *domain.Artist {
	ref, ok := t.PrimaryArtist()
	if !ok {
		return nil
	}
	a, ok := artists[ref.ID]
	if !ok {
		return nil
	}
	return &a
}
