package media

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Preload loads images in parallel so later lookups hit the loader's cache.
// It returns the failures keyed by name; a cancelled context stops
// scheduling and is returned as the error.
func Preload(ctx context.Context, l Loader, names []string, workers int) (map[string]error, error) {
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	failed := make(map[string]error)

	for _, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := l.LoadImage(name); err != nil {
				mu.Lock()
				failed[name] = err
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failed, err
	}
	return failed, ctx.Err()
}
