package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cratedig/internal/cache"
	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/core/ports"
	"github.com/ewilliams-labs/cratedig/internal/core/scoring"
	"github.com/ewilliams-labs/cratedig/internal/logging"
	"github.com/ewilliams-labs/cratedig/internal/metrics"
)

// ErrInvalidRequest marks a request that is missing a strategy-specific input.
var ErrInvalidRequest = errors.New("invalid discovery request")

const (
	msgSessionExpired = "Session expired. Please reconnect to Spotify."
	msgRateLimited    = "Spotify is rate limiting requests. Try again in a moment."
	msgUnavailable    = "Spotify is unavailable right now. Try again shortly."
)

// StrategyError is the single user-facing failure of a strategy invocation.
type StrategyError struct {
	Strategy domain.Strategy
	Message  string
	Err      error
}

func (e *StrategyError) Error() string {
	prefix := "service"
	if e.Strategy != "" {
		prefix += ": " + string(e.Strategy)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return prefix + ": " + e.Message
}

func (e *StrategyError) Unwrap() error { return e.Err }

// userError is a failure whose message is shown verbatim.
func userError(format string, args ...any) error {
	return &StrategyError{Message: fmt.Sprintf(format, args...)}
}

func invalidRequest(format string, args ...any) error {
	return &StrategyError{Message: fmt.Sprintf(format, args...), Err: ErrInvalidRequest}
}

// ThenNow holds the time-machine thresholds.
type ThenNow struct {
	WidenYears          int
	MinAnchors          int
	Anchors             int
	CutoffMonths        int
	RelaxedCutoffMonths int
	AnalogsPerAnchor    int
	CandidateWindow     int
}

// Config tunes the aggregator.
type Config struct {
	FanOutLimit int
	TasteTTL    time.Duration
	ThenNow     ThenNow
	Obscurity   scoring.ObscurityWeights
}

// DefaultConfig mirrors the defaults in internal/config.
func DefaultConfig() Config {
	return Config{
		FanOutLimit: 3,
		TasteTTL:    time.Hour,
		ThenNow: ThenNow{
			WidenYears:          1,
			MinAnchors:          3,
			Anchors:             3,
			CutoffMonths:        24,
			RelaxedCutoffMonths: 36,
			AnalogsPerAnchor:    2,
			CandidateWindow:     30,
		},
		Obscurity: scoring.DefaultObscurityWeights(),
	}
}

// Option customises a Discovery.
type Option func(*Discovery)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(d *Discovery) { d.cfg = cfg }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Discovery) { d.now = now }
}

// WithRand injects the random source used for search offsets and anchor picks.
func WithRand(r *rand.Rand) Option {
	return func(d *Discovery) { d.rnd = r }
}

const tasteKey = "profile"

// Discovery is the strategy aggregator. One value serves a whole session and
// is safe for concurrent use.
type Discovery struct {
	catalog  ports.Catalog
	artists  *cache.ArtistResolver
	settings ports.SettingsStore
	cfg      Config
	now      func() time.Time
	log      zerolog.Logger

	rndMu sync.Mutex
	rnd   *rand.Rand

	taste *cache.Store[domain.TasteProfile]

	mu        sync.Mutex
	top       []domain.Artist
	topIDs    map[string]struct{}
	topLoaded bool
	saved     []domain.SavedTrack
	savedSet  bool
}

// NewDiscovery wires the aggregator. settings may be nil, in which case the
// default settings are used.
func NewDiscovery(catalog ports.Catalog, artists *cache.ArtistResolver, settings ports.SettingsStore, opts ...Option) *Discovery {
	d := &Discovery{
		catalog:  catalog,
		artists:  artists,
		settings: settings,
		cfg:      DefaultConfig(),
		now:      time.Now,
		log:      logging.With("discovery"),
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.cfg.FanOutLimit < 1 {
		d.cfg.FanOutLimit = 1
	}
	d.taste = cache.New[domain.TasteProfile](d.cfg.TasteTTL, d.now)
	return d
}

// invocation carries the per-run state machine.
type invocation struct {
	result domain.Result
	log    zerolog.Logger
}

func (inv *invocation) enter(p domain.Phase) {
	if inv.result.Phase.Terminal() {
		return
	}
	inv.log.Debug().Str("from", string(inv.result.Phase)).Str("to", string(p)).Msg("phase")
	inv.result.Phase = p
}

type strategyFunc func(ctx context.Context, inv *invocation, req domain.Request, s domain.Settings) error

func (d *Discovery) strategy(s domain.Strategy) (strategyFunc, bool) {
	switch s {
	case domain.StrategyGenre:
		return d.runGenre, true
	case domain.StrategyGap:
		return d.runGap, true
	case domain.StrategyArtistTracks:
		return d.runArtistTracks, true
	case domain.StrategyGraph:
		return d.runGraph, true
	case domain.StrategyFreshness:
		return d.runFreshness, true
	case domain.StrategyMood:
		return d.runMood, true
	case domain.StrategyTimeMachine:
		return d.runTimeMachine, true
	}
	return nil, false
}

// Run executes one strategy invocation. On failure the returned Result is
// empty, in the failed phase, and carries the user-facing message; the error
// is a *StrategyError.
func (d *Discovery) Run(ctx context.Context, req domain.Request) (domain.Result, error) {
	id := uuid.NewString()
	inv := &invocation{
		result: domain.Result{
			InvocationID: id,
			Strategy:     req.Strategy,
			Phase:        domain.PhaseIdle,
			StartedAt:    d.now(),
		},
		log: d.log.With().Str("invocation_id", id).Str("strategy", string(req.Strategy)).Logger(),
	}

	err := d.run(ctx, inv, req)
	inv.result.FinishedAt = d.now()
	elapsed := inv.result.FinishedAt.Sub(inv.result.StartedAt).Seconds()

	if err != nil {
		serr := d.classify(req.Strategy, err)
		inv.result = domain.Result{
			InvocationID: id,
			Strategy:     req.Strategy,
			Phase:        domain.PhaseFailed,
			Message:      serr.Message,
			StartedAt:    inv.result.StartedAt,
			FinishedAt:   inv.result.FinishedAt,
		}
		metrics.RecordDiscovery(string(req.Strategy), "failed", elapsed, 0)
		inv.log.Warn().Err(err).Msg("strategy failed")
		return inv.result, serr
	}

	inv.enter(domain.PhaseRendered)
	metrics.RecordDiscovery(string(req.Strategy), "ok", elapsed, inv.result.Len())
	inv.log.Info().Int("results", inv.result.Len()).Dur("took", inv.result.FinishedAt.Sub(inv.result.StartedAt)).Msg("strategy rendered")
	return inv.result, nil
}

func (d *Discovery) run(ctx context.Context, inv *invocation, req domain.Request) error {
	fn, ok := d.strategy(req.Strategy)
	if !ok {
		return invalidRequest("Unknown strategy %q.", req.Strategy)
	}
	settings := d.currentSettings(ctx)
	if err := fn(ctx, inv, req, settings); err != nil {
		return err
	}
	return d.postProcess(ctx, inv, req, settings)
}

// classify turns any failure into a StrategyError with a user-facing message.
func (d *Discovery) classify(strategy domain.Strategy, err error) *StrategyError {
	var serr *StrategyError
	if errors.As(err, &serr) {
		out := *serr
		out.Strategy = strategy
		return &out
	}

	msg := "Something went wrong. Please try again."
	switch {
	case errors.Is(err, ports.ErrAuth):
		msg = msgSessionExpired
	case errors.Is(err, ports.ErrRateLimited):
		msg = msgRateLimited
	case errors.Is(err, ports.ErrServer):
		msg = msgUnavailable
	case errors.Is(err, ports.ErrClient):
		var apiErr *ports.APIError
		if errors.As(err, &apiErr) {
			msg = fmt.Sprintf("Spotify rejected the request (%d).", apiErr.Status)
		}
	}
	return &StrategyError{Strategy: strategy, Message: msg, Err: err}
}

func (d *Discovery) currentSettings(ctx context.Context) domain.Settings {
	if d.settings == nil {
		return domain.DefaultSettings()
	}
	s, err := d.settings.CurrentSettings(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("settings unavailable, using defaults")
		return domain.DefaultSettings()
	}
	return s
}

// TopArtists returns the session's medium-term top artists, fetching all
// pages once and caching them for the life of the Discovery.
func (d *Discovery) TopArtists(ctx context.Context) ([]domain.Artist, error) {
	d.mu.Lock()
	if d.topLoaded {
		top := d.top
		d.mu.Unlock()
		return top, nil
	}
	d.mu.Unlock()

	top, err := d.catalog.TopArtists(ctx, ports.TopOptions{TimeRange: ports.MediumTerm, Limit: 50})
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch top artists: %w", err)
	}
	d.artists.Prime(top)

	ids := make(map[string]struct{}, len(top))
	for _, a := range top {
		ids[a.ID] = struct{}{}
	}

	d.mu.Lock()
	d.top, d.topIDs, d.topLoaded = top, ids, true
	d.mu.Unlock()
	return top, nil
}

func (d *Discovery) isTopArtist(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.topIDs[id]
	return ok
}

// savedTracks loads the user's library once. A failed load is logged and
// yields an empty list that is not cached.
func (d *Discovery) savedTracks(ctx context.Context) ([]domain.SavedTrack, error) {
	d.mu.Lock()
	if d.savedSet {
		saved := d.saved
		d.mu.Unlock()
		return saved, nil
	}
	d.mu.Unlock()

	saved, err := d.catalog.SavedTracks(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrAuth) {
			return nil, err
		}
		d.log.Warn().Err(err).Msg("could not load saved tracks")
		return nil, nil
	}

	d.mu.Lock()
	d.saved, d.savedSet = saved, true
	d.mu.Unlock()
	return saved, nil
}

// Reset drops the session caches so the next run refetches top artists,
// the library and the taste profile. Artist entries expire on their own.
func (d *Discovery) Reset() {
	d.mu.Lock()
	d.top, d.topIDs, d.topLoaded = nil, nil, false
	d.saved, d.savedSet = nil, false
	d.mu.Unlock()
	d.taste.Delete(tasteKey)
}

func (d *Discovery) intn(n int) int {
	if n <= 0 {
		return 0
	}
	d.rndMu.Lock()
	defer d.rndMu.Unlock()
	return d.rnd.IntN(n)
}

func (d *Discovery) shuffle(n int, swap func(i, j int)) {
	d.rndMu.Lock()
	defer d.rndMu.Unlock()
	d.rnd.Shuffle(n, swap)
}
