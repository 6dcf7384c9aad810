package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

const (
	freshArtistCount     = 20
	freshAlbumLimit      = 10
	freshAlbumsPerArtist = 3
	freshTrackLimit      = 5
	freshTracksPerAlbum  = 2
	freshResultCap       = 25
)

var freshAlbumGroups = []string{"album", "single"}

// runFreshness surfaces tracks from releases by top artists within the
// configured freshness window, newest first.
func (d *Discovery) runFreshness(ctx context.Context, inv *invocation, _ domain.Request, s domain.Settings) error {
	inv.enter(domain.PhaseFetchingSeed)
	top, err := d.TopArtists(ctx)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return userError("No top artists found")
	}

	now := d.now()
	window := max(s.FreshnessDays, 1)
	cutoff := now.AddDate(0, 0, -window)

	inv.enter(domain.PhaseSearching)
	settled, err := fanOut(ctx, d, "artist-releases", capped(top, freshArtistCount), func(ctx context.Context, a domain.Artist) ([]domain.Track, error) {
		return d.recentTracks(ctx, a, cutoff)
	})
	if err != nil {
		return err
	}

	inv.enter(domain.PhaseScoring)
	var tracks []domain.Track
	checked := 0
	for _, res := range settled {
		if res.Err != nil {
			continue
		}
		checked++
		tracks = append(tracks, res.Value...)
	}
	tracks = domain.DedupeTracks(tracks)
	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].Album.ReleaseDate > tracks[j].Album.ReleaseDate
	})

	cands := make([]domain.ScoredCandidate, 0, min(len(tracks), freshResultCap))
	for i := range capped(tracks, freshResultCap) {
		t := tracks[i]
		cands = append(cands, domain.ScoredCandidate{Track: &t, Score: freshness(t.Album, now, window)})
	}
	inv.result.Candidates = cands
	inv.result.Stats = domain.Stats{
		ArtistsChecked: checked,
		Description:    fmt.Sprintf("%d new tracks", len(tracks)),
	}
	return nil
}

// recentTracks lists an artist's releases after cutoff and samples a few
// tracks from each. Album track failures are logged and skipped.
func (d *Discovery) recentTracks(ctx context.Context, a domain.Artist, cutoff time.Time) ([]domain.Track, error) {
	albums, err := d.catalog.ArtistAlbums(ctx, a.ID, freshAlbumGroups, freshAlbumLimit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list albums for %s: %w", a.ID, err)
	}

	var recent []domain.Album
	for _, al := range albums {
		if al.ReleasedOnOrAfter(cutoff) {
			recent = append(recent, al)
		}
		if len(recent) == freshAlbumsPerArtist {
			break
		}
	}
	if len(recent) == 0 {
		return nil, nil
	}

	settled, err := fanOut(ctx, d, "album-tracks", recent, func(ctx context.Context, al domain.Album) ([]domain.Track, error) {
		return d.catalog.AlbumTracks(ctx, al, freshTrackLimit)
	})
	if err != nil {
		return nil, err
	}
	var out []domain.Track
	for _, res := range settled {
		out = append(out, capped(res.Value, freshTracksPerAlbum)...)
	}
	return out, nil
}

// freshness is 1 for a release today falling to 0 at the window edge.
func freshness(a domain.Album, now time.Time, windowDays int) float64 {
	rt, ok := a.ReleaseTime()
	if !ok {
		return 0
	}
	age := now.Sub(rt).Hours() / 24
	return max(0, min(1, 1-age/float64(windowDays)))
}
