package domain

import (
	"fmt"
	"time"
)

// Strategy names a discovery procedure.
type Strategy string

const (
	StrategyGenre        Strategy = "genre"
	StrategyGap          Strategy = "gap"
	StrategyArtistTracks Strategy = "artist-tracks"
	StrategyGraph        Strategy = "graph"
	StrategyFreshness    Strategy = "freshness"
	StrategyMood         Strategy = "mood"
	StrategyTimeMachine  Strategy = "time-machine"
)

// Strategies lists every strategy the aggregator can run.
var Strategies = []Strategy{
	StrategyGenre, StrategyGap, StrategyArtistTracks, StrategyGraph,
	StrategyFreshness, StrategyMood, StrategyTimeMachine,
}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("domain: unknown strategy %q", s)
}

// Phase is the lifecycle state of one strategy invocation.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseFetchingSeed Phase = "fetching-seed"
	PhaseSearching    Phase = "searching"
	PhaseEnriching    Phase = "enriching"
	PhaseScoring      Phase = "scoring"
	PhaseRendered     Phase = "rendered"
	PhaseFailed       Phase = "failed"
)

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseRendered || p == PhaseFailed
}

// Request is the command object a driving adapter hands to the aggregator.
type Request struct {
	Strategy Strategy `json:"strategy"`

	Mood       Mood   `json:"mood,omitempty"`       // mood
	Year       int    `json:"year,omitempty"`       // time-machine
	ArtistID   string `json:"artistId,omitempty"`   // graph, artist-tracks
	SeedArtist string `json:"seedArtist,omitempty"` // graph, resolved by name among top artists

	// SortByTaste reorders track results by taste similarity.
	SortByTaste bool `json:"sortByTaste,omitempty"`
	// MinObscurity overrides the stored obscurity threshold when non-nil.
	MinObscurity *int `json:"minObscurity,omitempty"`
}

// Pair is a then/now anchor with its modern analogs.
type Pair struct {
	Then Track            `json:"then"`
	Now  []ScoredCandidate `json:"now"`
}

// Stats carries strategy-specific summary numbers for display.
type Stats struct {
	Genres          []string `json:"genres,omitempty"`
	ArtistsChecked  int      `json:"artistsChecked,omitempty"`
	SearchedYear    int      `json:"searchedYear,omitempty"`
	Widened         bool     `json:"widened,omitempty"`
	AverageOverlap  float64  `json:"averageOverlap,omitempty"`
	PopularityLimit int      `json:"popularityLimit,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// Result is the value returned for one strategy invocation.
type Result struct {
	InvocationID string            `json:"invocationId"`
	Strategy     Strategy          `json:"strategy"`
	Phase        Phase             `json:"phase"`
	Candidates   []ScoredCandidate `json:"candidates"`
	Pairs        []Pair            `json:"pairs,omitempty"`
	Stats        Stats             `json:"stats"`
	Message      string            `json:"message,omitempty"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   time.Time         `json:"finishedAt"`
}

// Len is the number of ranked entries, counting then/now pairs.
func (r Result) Len() int {
	if len(r.Pairs) > 0 {
		return len(r.Pairs)
	}
	return len(r.Candidates)
}
