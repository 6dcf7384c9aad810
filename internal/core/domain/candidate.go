package domain

// ScoredCandidate wraps a track and/or artist with derived scores. Scores are
// recomputed on every ranking pass and never persisted.
type ScoredCandidate struct {
	Track  *Track
	Artist *Artist

	Score           float64 // strategy ranking score
	Similarity      float64 // taste or analog similarity, 0..1
	Obscurity       int     // 0..100
	FollowerScore   int     // 0..100
	HasFollowerData bool
	MoodFit         float64 // 0..1
	Overlap         int     // genre-overlap count
}

// ID is the stable identifier used for deduplication: the track ID when a
// track is present, otherwise the artist ID.
func (c ScoredCandidate) ID() string {
	if c.Track != nil {
		return c.Track.ID
	}
	if c.Artist != nil {
		return c.Artist.ID
	}
	return ""
}

// Popularity is the catalog popularity of the wrapped item.
func (c ScoredCandidate) Popularity() int {
	if c.Track != nil {
		return c.Track.Popularity
	}
	if c.Artist != nil {
		return c.Artist.Popularity
	}
	return 0
}

// TrackCandidates wraps tracks with zero scores.
func TrackCandidates(tracks []Track) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(tracks))
	for i := range tracks {
		t := tracks[i]
		out = append(out, ScoredCandidate{Track: &t})
	}
	return out
}

// MergeCandidates concatenates the lists keeping the first occurrence of each ID.
// Candidates without an ID are dropped.
func MergeCandidates(lists ...[]ScoredCandidate) []ScoredCandidate {
	size := 0
	for _, l := range lists {
		size += len(l)
	}
	seen := make(map[string]struct{}, size)
	out := make([]ScoredCandidate, 0, size)
	for _, l := range lists {
		for _, c := range l {
			id := c.ID()
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// DedupeTracks keeps the first occurrence of each track ID.
func DedupeTracks(tracks []Track) []Track {
	seen := make(map[string]struct{}, len(tracks))
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.ID == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
