// Package worker bounds fan-out of per-item catalog requests.
package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Settled is the outcome of one item: either Value or Err is meaningful.
// Index is the item's position in the input slice.
type Settled[R any] struct {
	Index int
	Value R
	Err   error
}

// MapLimited runs fn over items with at most limit calls in flight. Admission
// blocks until a running call finishes. A failing item never cancels its
// siblings; its error is carried in its Settled value. Results are returned
// in completion order and there is always one per item.
func MapLimited[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) []Settled[R] {
	if limit < 1 {
		limit = 1
	}

	var (
		mu  sync.Mutex
		out = make([]Settled[R], 0, len(items))
		g   errgroup.Group
	)
	g.SetLimit(limit)

	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, item)
			mu.Lock()
			out = append(out, Settled[R]{Index: i, Value: v, Err: err})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Values returns the successful values in the order given and the number of
// failed items.
func Values[R any](settled []Settled[R]) (values []R, failed int) {
	values = make([]R, 0, len(settled))
	for _, s := range settled {
		if s.Err != nil {
			failed++
			continue
		}
		values = append(values, s.Value)
	}
	return values, failed
}
