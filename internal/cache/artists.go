package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
	"github.com/ewilliams-labs/cratedig/internal/logging"
	"github.com/ewilliams-labs/cratedig/internal/metrics"
)

// DefaultArtistTTL is how long a fetched artist stays fresh.
const DefaultArtistTTL = 10 * time.Minute

// MaxBatchSize is the catalog ceiling for one multi-artist lookup.
const MaxBatchSize = 50

// ArtistFetcher fetches up to MaxBatchSize artists in one call.
type ArtistFetcher interface {
	Artists(ctx context.Context, ids []string) ([]domain.Artist, error)
}

// ArtistResolver resolves artist ids through the TTL store, filling misses
// with batched fetches.
type ArtistResolver struct {
	store     *Store[domain.Artist]
	fetcher   ArtistFetcher
	batchSize int
	log       zerolog.Logger
}

// NewArtistResolver builds a resolver. batchSize outside 1..50 is clamped to 50.
func NewArtistResolver(fetcher ArtistFetcher, ttl time.Duration, batchSize int, now func() time.Time) *ArtistResolver {
	if ttl <= 0 {
		ttl = DefaultArtistTTL
	}
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	return &ArtistResolver{
		store:     New[domain.Artist](ttl, now),
		fetcher:   fetcher,
		batchSize: batchSize,
		log:       logging.With("artist-cache"),
	}
}

// Resolve returns every requested artist it could obtain. Failed batches are
// logged and skipped, so missing ids are simply absent from the result.
func (r *ArtistResolver) Resolve(ctx context.Context, ids []string) map[string]domain.Artist {
	out := make(map[string]domain.Artist, len(ids))
	seen := make(map[string]struct{}, len(ids))
	var missing []string

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if a, ok := r.store.Get(id); ok {
			out[id] = a
			metrics.ArtistCacheHits.Inc()
			continue
		}
		missing = append(missing, id)
		metrics.ArtistCacheMisses.Inc()
	}

	for start := 0; start < len(missing); start += r.batchSize {
		end := min(start+r.batchSize, len(missing))
		batch := missing[start:end]

		artists, err := r.fetcher.Artists(ctx, batch)
		if err != nil {
			metrics.ArtistBatchFailures.Inc()
			r.log.Warn().Err(err).Int("batch_size", len(batch)).Msg("artist batch fetch failed, skipping")
			continue
		}
		for _, a := range artists {
			r.store.Set(a.ID, a)
			out[a.ID] = a
		}
	}
	return out
}

// Prime stores artists that arrived with full detail from another endpoint,
// such as search or top-artist listings.
func (r *ArtistResolver) Prime(artists []domain.Artist) {
	for _, a := range artists {
		if a.ID != "" {
			r.store.Set(a.ID, a)
		}
	}
}

// Len reports the number of cached artists.
func (r *ArtistResolver) Len() int {
	return r.store.Len()
}
