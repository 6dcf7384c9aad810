package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/core/scoring"
)

const analogSearchLimit = 50

// runTimeMachine pairs random saved tracks from the chosen year with recent
// releases that resemble them.
func (d *Discovery) runTimeMachine(ctx context.Context, inv *invocation, req domain.Request, _ domain.Settings) error {
	if req.Year <= 0 {
		return invalidRequest("Please select a year first")
	}
	tn := d.cfg.ThenNow

	inv.enter(domain.PhaseFetchingSeed)
	saved, err := d.savedTracks(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		return userError("Add saved songs to use the time machine.")
	}

	anchors := tracksFromYears(saved, req.Year, 0)
	inv.result.Stats.SearchedYear = req.Year
	if len(anchors) < tn.MinAnchors {
		anchors = tracksFromYears(saved, req.Year, tn.WidenYears)
		inv.result.Stats.Widened = true
	}
	if len(anchors) < tn.MinAnchors {
		return userError("Not enough tracks from %d. Try a different year.", req.Year)
	}
	d.shuffle(len(anchors), func(i, j int) { anchors[i], anchors[j] = anchors[j], anchors[i] })
	anchors = capped(anchors, tn.Anchors)

	inv.enter(domain.PhaseSearching)
	for _, then := range anchors {
		analogs, err := d.findAnalogs(ctx, then)
		if err != nil {
			return err
		}
		if len(analogs) > 0 {
			inv.result.Pairs = append(inv.result.Pairs, domain.Pair{Then: then, Now: analogs})
		}
	}
	inv.enter(domain.PhaseScoring)
	inv.result.Stats.Description = fmt.Sprintf("%d Then → Now pairs from %d", len(inv.result.Pairs), req.Year)
	if len(inv.result.Pairs) == 0 {
		inv.result.Message = "No modern analogs found. Try a different year."
	}
	return nil
}

// tracksFromYears keeps saved tracks released within spread years of year.
// Tracks without a release date never qualify.
func tracksFromYears(saved []domain.SavedTrack, year, spread int) []domain.Track {
	var out []domain.Track
	for _, s := range saved {
		y := s.Album.ReleaseYear()
		if y == 0 {
			continue
		}
		if diff := y - year; diff >= -spread && diff <= spread {
			out = append(out, s.Track)
		}
	}
	return out
}

// findAnalogs searches recent releases in the anchor's leading genre,
// relaxing the cutoff once when nothing qualifies, and returns the best
// matches by analog similarity.
func (d *Discovery) findAnalogs(ctx context.Context, then domain.Track) ([]domain.ScoredCandidate, error) {
	tn := d.cfg.ThenNow
	now := d.now()

	cands, err := d.analogSearch(ctx, then, now.AddDate(0, -tn.CutoffMonths, 0), now)
	if err != nil {
		return nil, err
	}
	if len(cands) == 0 {
		cands, err = d.analogSearch(ctx, then, now.AddDate(0, -tn.RelaxedCutoffMonths, 0), now)
		if err != nil {
			return nil, err
		}
	}
	if len(cands) == 0 {
		return nil, nil
	}

	window := capped(cands, tn.CandidateWindow)
	artists := d.artists.Resolve(ctx, primaryIDs(append([]domain.Track{then}, window...)))
	thenArtist := primaryOf(then, artists)

	scored := make([]domain.ScoredCandidate, 0, len(window))
	for i := range window {
		t := window[i]
		nowArtist := primaryOf(t, artists)
		sim := scoring.AnalogSimilarity(then, t, thenArtist, nowArtist, now.Year())
		scored = append(scored, domain.ScoredCandidate{Track: &t, Artist: nowArtist, Score: sim, Similarity: sim})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return capped(scored, tn.AnalogsPerAnchor), nil
}

// analogSearch queries tracks in the anchor artist's first genre released
// between cutoff's year and now, keeping those released on or after cutoff.
// Lookup failures other than credential loss yield no candidates.
func (d *Discovery) analogSearch(ctx context.Context, then domain.Track, cutoff, now time.Time) ([]domain.Track, error) {
	ref, ok := then.PrimaryArtist()
	if !ok || ref.ID == "" {
		return nil, nil
	}
	artist, ok := d.artists.Resolve(ctx, []string{ref.ID})[ref.ID]
	if !ok || len(artist.Genres) == 0 {
		return nil, nil
	}

	query := ports.GenreQuery(artist.Genres[0]) + " " + ports.YearQuery(fmt.Sprintf("%d-%d", cutoff.Year(), now.Year()))
	tracks, err := d.catalog.SearchTracks(ctx, ports.SearchOptions{Query: query, Limit: analogSearchLimit})
	if err != nil {
		if errors.Is(err, ports.ErrAuth) {
			return nil, err
		}
		d.log.Warn().Err(err).Str("query", query).Msg("analog search failed")
		return nil, nil
	}

	var out []domain.Track
	for _, t := range tracks {
		if t.ID != then.ID && t.Album.ReleasedOnOrAfter(cutoff) {
			out = append(out, t)
		}
	}
	return out, nil
}
