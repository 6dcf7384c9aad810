package services

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/match"
	"github.com/ewilliams-labs/cratedig/internal/core/scoring"
)

const (
	genreCoreCount   = 4
	genreSearchLimit = 15
	genreMaxOffset   = 30
	genrePoolSize    = 40
	genreResultCap   = 30

	gapGenreCount  = 8
	gapSearchLimit = 30
	gapMaxOffset   = 20
	gapMinOverlap  = 2
	gapResultCap   = 24

	artistTracksCap = 10

	graphGenreCount  = 3
	graphSearchLimit = 30
	graphRelatedCap  = 20
	graphResultCap   = 15
)

// runGenre mines the user's core genres for artists outside their top list,
// biased toward low popularity, and returns one top track per artist.
func (d *Discovery) runGenre(ctx context.Context, inv *invocation, _ domain.Request, s domain.Settings) error {
	inv.enter(domain.PhaseFetchingSeed)
	top, err := d.TopArtists(ctx)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return userError("No top artists returned by Spotify.")
	}
	core := scoring.RankGenres(scoring.GenreFrequency(top), genreCoreCount)
	if len(core) == 0 {
		return userError("Your top artists have no genre tags.")
	}

	inv.enter(domain.PhaseSearching)
	settled, err := d.searchGenres(ctx, core, genreSearchLimit, genreMaxOffset)
	if err != nil {
		return err
	}
	var found []domain.ScoredCandidate
	for _, res := range settled {
		for i := range res.Value {
			a := res.Value[i]
			if d.isTopArtist(a.ID) {
				continue
			}
			overlap := scoring.GenreOverlap(a.Genres, core)
			found = append(found, domain.ScoredCandidate{
				Artist:  &a,
				Overlap: overlap,
				Score:   float64(overlap) / float64(len(core)),
			})
		}
	}

	target := s.PopularityCeiling()
	pool := rank(domain.MergeCandidates(found), target, genrePoolSize)

	inv.enter(domain.PhaseEnriching)
	tracks, err := d.firstTopTracks(ctx, pool, genreResultCap)
	if err != nil {
		return err
	}

	inv.enter(domain.PhaseScoring)
	inv.result.Candidates = rank(tracks, target, genreResultCap)
	inv.result.Stats = domain.Stats{
		Genres:          core,
		ArtistsChecked:  len(pool),
		PopularityLimit: target,
		Description:     fmt.Sprintf("Median pop: %d", medianPopularity(inv.result.Candidates)),
	}
	return nil
}

// runGap ranks unfamiliar artists by how many of the user's genres they
// share, weighted by how often the user plays each searched genre.
func (d *Discovery) runGap(ctx context.Context, inv *invocation, _ domain.Request, s domain.Settings) error {
	inv.enter(domain.PhaseFetchingSeed)
	top, err := d.TopArtists(ctx)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return userError("No top artists found for this account.")
	}
	freq := scoring.GenreFrequency(top)
	genres := scoring.RankGenres(freq, gapGenreCount)

	inv.enter(domain.PhaseSearching)
	settled, err := d.searchGenres(ctx, genres, gapSearchLimit, gapMaxOffset)
	if err != nil {
		return err
	}

	inv.enter(domain.PhaseScoring)
	bucket := make(map[string]*domain.ScoredCandidate)
	var order []string
	for _, res := range settled {
		if res.Err != nil {
			continue
		}
		weight := max(freq[genres[res.Index]], 1)
		for i := range res.Value {
			a := res.Value[i]
			if d.isTopArtist(a.ID) {
				continue
			}
			overlap := 0
			for _, g := range a.Genres {
				if _, ok := freq[g]; ok {
					overlap++
				}
			}
			entry, ok := bucket[a.ID]
			if !ok {
				entry = &domain.ScoredCandidate{Artist: &a}
				bucket[a.ID] = entry
				order = append(order, a.ID)
			}
			entry.Score += float64(weight * (overlap + 1))
			entry.Overlap = overlap
		}
	}

	target := s.PopularityCeiling()
	cands := make([]domain.ScoredCandidate, 0, len(order))
	for _, id := range order {
		if c := bucket[id]; c.Overlap >= gapMinOverlap {
			cands = append(cands, *c)
		}
	}
	inv.result.Candidates = rank(cands, target, gapResultCap)
	inv.result.Stats = domain.Stats{
		Genres:          genres,
		ArtistsChecked:  len(bucket),
		PopularityLimit: target,
	}
	if len(inv.result.Candidates) == 0 {
		inv.result.Message = "No candidates found"
	}
	return nil
}

// runArtistTracks expands one artist into its top tracks in catalog order.
func (d *Discovery) runArtistTracks(ctx context.Context, inv *invocation, req domain.Request, _ domain.Settings) error {
	if req.ArtistID == "" {
		return invalidRequest("Pick an artist first.")
	}
	inv.enter(domain.PhaseSearching)
	tracks, err := d.catalog.ArtistTopTracks(ctx, req.ArtistID)
	if err != nil {
		return fmt.Errorf("service: failed to fetch top tracks: %w", err)
	}
	inv.enter(domain.PhaseScoring)
	inv.result.Candidates = domain.TrackCandidates(capped(tracks, artistTracksCap))
	return nil
}

// runGraph walks outward from a seed artist through shared genre tags.
func (d *Discovery) runGraph(ctx context.Context, inv *invocation, req domain.Request, s domain.Settings) error {
	if req.ArtistID == "" && req.SeedArtist == "" {
		return invalidRequest("Please select an artist first.")
	}

	inv.enter(domain.PhaseFetchingSeed)
	top, err := d.TopArtists(ctx)
	if err != nil {
		return err
	}
	seed, ok := findSeed(top, req)
	if !ok {
		return userError("Selected artist not found")
	}
	if len(seed.Genres) == 0 {
		return userError("Selected artist has no genre tags")
	}

	inv.enter(domain.PhaseSearching)
	settled, err := d.searchGenres(ctx, capped(seed.Genres, graphGenreCount), graphSearchLimit, 0)
	if err != nil {
		return err
	}
	related := make(map[string]domain.ScoredCandidate)
	for _, res := range settled {
		for i := range res.Value {
			a := res.Value[i]
			if a.ID == seed.ID || d.isTopArtist(a.ID) {
				continue
			}
			overlap := scoring.GenreOverlap(a.Genres, seed.Genres)
			if overlap == 0 {
				continue
			}
			if prev, seen := related[a.ID]; !seen || prev.Overlap < overlap {
				related[a.ID] = domain.ScoredCandidate{Artist: &a, Overlap: overlap, Score: float64(overlap)}
			}
		}
	}

	target := s.PopularityCeiling()
	pool := make([]domain.ScoredCandidate, 0, len(related))
	for _, c := range related {
		pool = append(pool, c)
	}
	pool = rank(pool, target, graphRelatedCap)
	inv.result.Stats = domain.Stats{
		Genres:          capped(seed.Genres, graphGenreCount),
		PopularityLimit: target,
		Description:     fmt.Sprintf("From %q", seed.Name),
	}
	if len(pool) == 0 {
		inv.result.Message = "No related artists found with current settings"
		return nil
	}

	sum := 0
	for _, c := range pool {
		sum += c.Overlap
	}
	inv.result.Stats.AverageOverlap = float64(sum) / float64(len(pool))
	inv.result.Stats.ArtistsChecked = len(pool)

	inv.enter(domain.PhaseEnriching)
	tracks, err := d.firstTopTracks(ctx, pool, graphResultCap)
	if err != nil {
		return err
	}
	inv.enter(domain.PhaseScoring)
	inv.result.Candidates = tracks
	return nil
}

// findSeed resolves the seed among top artists by id, then by fuzzy name.
func findSeed(top []domain.Artist, req domain.Request) (domain.Artist, bool) {
	if req.ArtistID != "" {
		for _, a := range top {
			if a.ID == req.ArtistID {
				return a, true
			}
		}
		return domain.Artist{}, false
	}
	best, _, ok := match.BestArtist(req.SeedArtist, top)
	return best, ok
}

func medianPopularity(cands []domain.ScoredCandidate) int {
	pops := make([]float64, 0, len(cands))
	for _, c := range cands {
		pops = append(pops, float64(c.Popularity()))
	}
	return int(scoring.Median(pops) + 0.5)
}
