package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingFetcher struct {
	batches [][]string
	failOn  int // 1-based batch number that fails; 0 never
}

func (f *countingFetcher) Artists(_ context.Context, ids []string) ([]domain.Artist, error) {
	f.batches = append(f.batches, append([]string(nil), ids...))
	if f.failOn == len(f.batches) {
		return nil, errors.New("boom")
	}
	out := make([]domain.Artist, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Artist{ID: id, Name: "artist " + id})
	}
	return out, nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("a%03d", i)
	}
	return out
}

func TestStoreExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := New[int](time.Minute, clock.Now)

	s.Set("k", 1)
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	clock.Advance(59 * time.Second)
	_, ok = s.Get("k")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = s.Get("k")
	assert.False(t, ok, "entry is stale once elapsed == ttl")

	assert.Equal(t, 1, s.Purge())
	assert.Equal(t, 0, s.Len())
}

func TestArtistResolverReusesFreshEntries(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	f := &countingFetcher{}
	r := NewArtistResolver(f, 10*time.Minute, 50, clock.Now)

	got := r.Resolve(context.Background(), []string{"x"})
	require.Contains(t, got, "x")
	got = r.Resolve(context.Background(), []string{"x", "x"})
	require.Contains(t, got, "x")
	assert.Len(t, f.batches, 1, "second lookup within ttl must hit the cache")

	clock.Advance(10 * time.Minute)
	r.Resolve(context.Background(), []string{"x"})
	assert.Len(t, f.batches, 2, "expired entry must be refetched")
}

func TestArtistResolverBatches(t *testing.T) {
	f := &countingFetcher{}
	r := NewArtistResolver(f, time.Minute, 50, nil)

	got := r.Resolve(context.Background(), ids(120))

	require.Len(t, f.batches, 3)
	assert.Len(t, f.batches[0], 50)
	assert.Len(t, f.batches[1], 50)
	assert.Len(t, f.batches[2], 20)
	assert.Len(t, got, 120)
}

func TestArtistResolverSkipsFailedBatch(t *testing.T) {
	f := &countingFetcher{failOn: 2}
	r := NewArtistResolver(f, time.Minute, 50, nil)

	got := r.Resolve(context.Background(), ids(120))

	assert.Len(t, f.batches, 3)
	assert.Len(t, got, 70)
	assert.NotContains(t, got, "a050")
	assert.Contains(t, got, "a100")
}

func TestArtistResolverPrime(t *testing.T) {
	f := &countingFetcher{}
	r := NewArtistResolver(f, time.Minute, 50, nil)
	r.Prime([]domain.Artist{{ID: "p1", Genres: []string{"jazz"}}})

	got := r.Resolve(context.Background(), []string{"p1", "", "p2"})
	assert.Equal(t, []string{"jazz"}, got["p1"].Genres)
	require.Len(t, f.batches, 1)
	assert.Equal(t, []string{"p2"}, f.batches[0])
}
