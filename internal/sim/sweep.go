package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator for one run of a sweep.
type Factory func() (*Simulator, error)

// Sweep runs one fresh simulator per config concurrently. Results are in
// config order. The first failure cancels the remaining runs.
func Sweep(ctx context.Context, build Factory, cfgs []Config) ([]*Result, error) {
	results := make([]*Result, len(cfgs))

	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			s, err := build()
			if err != nil {
				return err
			}
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
