package services

import (
	"context"
	"errors"
	"sort"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/worker"
)

// noCeiling disables the popularity filter in rank.
const noCeiling = -1

// rank applies the popularity ceiling, orders by score desc, popularity asc
// and then ID, and truncates to limit. A negative ceiling keeps everything.
func rank(cands []domain.ScoredCandidate, ceiling, limit int) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		if ceiling >= 0 && c.Popularity() > ceiling {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Popularity() != b.Popularity() {
			return a.Popularity() < b.Popularity()
		}
		return a.ID() < b.ID()
	})
	return capped(out, limit)
}

func capped[T any](s []T, limit int) []T {
	if limit >= 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

// inOrder restores input order on settled fan-out results.
func inOrder[R any](settled []worker.Settled[R]) []worker.Settled[R] {
	out := append([]worker.Settled[R](nil), settled...)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// authFailure returns the first credential failure among settled results.
// Other per-item failures are partial results and only logged by callers.
func authFailure[R any](settled []worker.Settled[R]) error {
	for _, s := range settled {
		if s.Err != nil && errors.Is(s.Err, ports.ErrAuth) {
			return s.Err
		}
	}
	return nil
}

// fanOut runs fn over items through the concurrency limiter and returns the
// settled results in input order. A credential failure on any item fails the
// whole fan-out; other failures are logged and left in place.
func fanOut[T, R any](ctx context.Context, d *Discovery, what string, items []T, fn func(context.Context, T) (R, error)) ([]worker.Settled[R], error) {
	settled := inOrder(worker.MapLimited(ctx, items, d.cfg.FanOutLimit, fn))
	if err := authFailure(settled); err != nil {
		return nil, err
	}
	failed := 0
	for _, s := range settled {
		if s.Err != nil {
			failed++
			d.log.Warn().Err(s.Err).Str("step", what).Int("index", s.Index).Msg("fan-out item failed")
		}
	}
	if failed > 0 {
		d.log.Debug().Str("step", what).Int("failed", failed).Int("total", len(items)).Msg("fan-out finished with failures")
	}
	return settled, nil
}

// firstTopTracks fetches each artist's top tracks and keeps the first one,
// preserving artist order, until limit tracks are collected.
func (d *Discovery) firstTopTracks(ctx context.Context, pool []domain.ScoredCandidate, limit int) ([]domain.ScoredCandidate, error) {
	settled, err := fanOut(ctx, d, "artist-top-tracks", pool, func(ctx context.Context, c domain.ScoredCandidate) ([]domain.Track, error) {
		return d.catalog.ArtistTopTracks(ctx, c.Artist.ID)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoredCandidate, 0, min(limit, len(pool)))
	for _, s := range settled {
		if s.Err != nil || len(s.Value) == 0 {
			continue
		}
		c := pool[s.Index]
		t := s.Value[0]
		c.Track = &t
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// firstFailure returns the earliest per-item error among settled results.
func firstFailure[R any](settled []worker.Settled[R]) error {
	for _, s := range settled {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}

// searchGenres runs one artist search per genre. When maxOffset is positive
// each search starts at a random offset below it for variety. Any failed
// search fails the whole set.
func (d *Discovery) searchGenres(ctx context.Context, genres []string, limit, maxOffset int) ([]worker.Settled[[]domain.Artist], error) {
	settled := inOrder(worker.MapLimited(ctx, genres, d.cfg.FanOutLimit, func(ctx context.Context, g string) ([]domain.Artist, error) {
		opts := ports.SearchOptions{Query: ports.GenreQuery(g), Limit: limit}
		if maxOffset > 0 {
			opts.Offset = d.intn(maxOffset)
		}
		artists, err := d.catalog.SearchArtists(ctx, opts)
		if err == nil {
			d.artists.Prime(artists)
		}
		return artists, err
	}))
	if err := authFailure(settled); err != nil {
		return nil, err
	}
	if err := firstFailure(settled); err != nil {
		return nil, err
	}
	return settled, nil
}
