package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/core/scoring"
)

const (
	tastePageSize = 50
	checkTopLimit = 10
)

// BuildTaste returns the cached taste profile, building it from the first
// pages of top tracks and top artists when absent, expired or when rebuild
// is set.
func (d *Discovery) BuildTaste(ctx context.Context, rebuild bool) (domain.TasteProfile, error) {
	if !rebuild {
		if p, ok := d.taste.Get(tasteKey); ok {
			return p, nil
		}
	}
	d.taste.Delete(tasteKey)

	var (
		tracks  []domain.Track
		artists []domain.Artist
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tracks, err = d.catalog.TopTracks(gctx, ports.TopOptions{TimeRange: ports.LongTerm, Limit: tastePageSize, FirstPageOnly: true})
		return err
	})
	g.Go(func() (err error) {
		artists, err = d.catalog.TopArtists(gctx, ports.TopOptions{TimeRange: ports.MediumTerm, Limit: tastePageSize, FirstPageOnly: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.TasteProfile{}, d.classify("", fmt.Errorf("service: failed to fetch top items: %w", err))
	}
	d.artists.Prime(artists)

	profile, err := scoring.BuildTasteProfile(tracks, artists, d.now())
	if errors.Is(err, scoring.ErrNoTopTracks) {
		return domain.TasteProfile{}, &StrategyError{Message: "No top tracks found. Try listening to more music on Spotify.", Err: err}
	}
	if err != nil {
		return domain.TasteProfile{}, err
	}
	d.taste.Set(tasteKey, profile)
	d.log.Info().Int("tracks", profile.TrackCount).Int("genres", profile.GenreDiversity).Msg("taste profile built")
	return profile, nil
}

// CachedTaste returns the taste profile if one is built and fresh.
func (d *Discovery) CachedTaste() (domain.TasteProfile, bool) {
	return d.taste.Get(tasteKey)
}

// Years builds the release-year histogram of the saved library.
func (d *Discovery) Years(ctx context.Context) (domain.YearHistogram, error) {
	saved, err := d.savedTracks(ctx)
	if err != nil {
		return nil, d.classify("", err)
	}
	return domain.BuildYearHistogram(saved, d.now()), nil
}

// CheckResult is the outcome of a connectivity check.
type CheckResult struct {
	User       domain.User
	TopArtists int
}

// Check confirms the credential works by fetching the profile and one page
// of top artists.
func (d *Discovery) Check(ctx context.Context) (CheckResult, error) {
	me, err := d.catalog.Me(ctx)
	if err != nil {
		return CheckResult{}, d.classify("", fmt.Errorf("service: failed to fetch profile: %w", err))
	}
	top, err := d.catalog.TopArtists(ctx, ports.TopOptions{TimeRange: ports.MediumTerm, Limit: checkTopLimit, FirstPageOnly: true})
	if err != nil {
		return CheckResult{}, d.classify("", fmt.Errorf("service: failed to fetch top artists: %w", err))
	}
	return CheckResult{User: me, TopArtists: len(top)}, nil
}

// postProcess applies the obscurity threshold and taste ordering to track
// results. Artist-only results and then/now pairs pass through untouched.
func (d *Discovery) postProcess(ctx context.Context, inv *invocation, req domain.Request, s domain.Settings) error {
	cands := inv.result.Candidates
	if len(cands) == 0 || cands[0].Track == nil {
		return nil
	}

	threshold := s.ObscurityMinScore
	if req.MinObscurity != nil {
		threshold = *req.MinObscurity
	}
	if threshold <= 0 && !req.SortByTaste {
		return nil
	}

	tracks := make([]domain.Track, 0, len(cands))
	for _, c := range cands {
		tracks = append(tracks, *c.Track)
	}

	if threshold > 0 {
		artists := d.artists.Resolve(ctx, scoring.ArtistIDs(tracks))
		scores := scoring.Obscurity(tracks, artists, d.cfg.Obscurity)
		kept := cands[:0:0]
		for i, c := range cands {
			c.Obscurity = scores[i].Score
			c.FollowerScore = scores[i].FollowerScore
			c.HasFollowerData = scores[i].HasFollowerData
			if c.Obscurity >= threshold {
				kept = append(kept, c)
			}
		}
		inv.result.Stats.Description = fmt.Sprintf("%d/%d tracks (min obscurity %d)", len(kept), len(cands), threshold)
		cands = kept
	}

	if req.SortByTaste && len(cands) > 0 {
		profile, err := d.BuildTaste(ctx, false)
		if err != nil {
			if errors.Is(err, ports.ErrAuth) {
				return err
			}
			d.log.Warn().Err(err).Msg("taste profile unavailable, keeping strategy order")
		} else {
			artists := d.artists.Resolve(ctx, primaryIDs(tracks))
			now := d.now()
			for i := range cands {
				cands[i].Similarity = scoring.TasteSimilarity(*cands[i].Track, primaryOf(*cands[i].Track, artists), profile, now)
			}
			sort.SliceStable(cands, func(i, j int) bool { return cands[i].Similarity > cands[j].Similarity })
		}
	}

	if len(cands) == 0 {
		inv.result.Message = "No tracks match the obscurity threshold"
	}
	inv.result.Candidates = cands
	return nil
}
