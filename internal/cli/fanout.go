package cli

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// fetchAll calls fetch for every id with at most limit calls in flight and
// returns the results in id order. The first failure cancels the rest.
func fetchAll[T any](ctx context.Context, ids []string, limit int, fetch func(context.Context, string) (T, error)) ([]T, error) {
	out := make([]T, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range ids {
		g.Go(func() error {
			v, err := fetch(gctx, id)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
