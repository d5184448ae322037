package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/swarmsim/pkg/sequence"
)

// ForEach runs action for every element of the iterator with at most workers
// goroutines in flight (unbounded when workers <= 0). The first error cancels
// the context passed to the remaining actions, stops dispatch and is returned.
func ForEach[T any](ctx context.Context, i *sequence.Iterator[T], workers int, action func(context.Context, T) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	next, stop := i.Pull()
	defer stop()
	for {
		value, valid := next()
		if !valid {
			break
		}
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(gctx, value)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies mapFn to every element concurrently and returns the results in
// input order.
func Map[T any, R any](ctx context.Context, i *sequence.Iterator[T], workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	in := i.Collect()
	out := make([]R, len(in))
	idx := make([]int, len(in))
	for k := range idx {
		idx[k] = k
	}
	err := ForEach(ctx, sequence.From(idx), workers, func(ctx context.Context, k int) error {
		r, err := mapFn(ctx, in[k])
		if err != nil {
			return err
		}
		out[k] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
