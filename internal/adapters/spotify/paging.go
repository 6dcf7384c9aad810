package spotify

import "context"

// collect walks the cursor chain starting at first and returns every item in
// order. A failed page ends the walk; the items gathered so far are returned.
func collect[T any](ctx context.Context, c *Client, first page[T]) []T {
	items := append([]T(nil), first.Items...)
	next := first.Next
	seen := map[string]struct{}{}

	for next != "" {
		if _, loop := seen[next]; loop {
			c.log.Warn().Str("cursor", next).Msg("pagination cursor repeated, stopping")
			break
		}
		seen[next] = struct{}{}

		var p page[T]
		if err := c.Get(ctx, next, nil, &p); err != nil {
			c.log.Warn().Err(err).Int("collected", len(items)).Msg("pagination stopped early, returning partial result")
			break
		}
		items = append(items, p.Items...)
		next = p.Next
	}
	return items
}
