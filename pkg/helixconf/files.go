package helixconf

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FromFiles loads several independent configuration documents concurrently
// and returns them keyed by path. Documents are never merged; the first
// failure cancels the loads that have not started yet.
func FromFiles(paths ...string) (map[string]*Config, error) {
	var (
		mu      sync.Mutex
		configs = make(map[string]*Config, len(paths))
	)

	g, ctx := errgroup.WithContext(context.Background())
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := FromFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			configs[path] = cfg
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return configs, nil
}
