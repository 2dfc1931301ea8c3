// Package dispatcher fans a batch of work out to a fixed set of workers.
package dispatcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dispatcher feeds works onto queue in order and closes it when the batch is
// exhausted or ctx is done.
func Dispatcher(ctx context.Context, works []Work, queue chan<- Work) {
	defer close(queue)
	for _, work := range works {
		select {
		case queue <- work:
		case <-ctx.Done():
			return
		}
	}
}

// Run executes works on up to workers goroutines. The first failure cancels
// the remaining work and is returned.
func Run(ctx context.Context, works []Work, workers int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for i := range works {
		if !works[i].IsValid() {
			return fmt.Errorf("work %d (%s) has nothing to do", works[i].Index, works[i].Label)
		}
	}
	if len(works) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(works) {
		workers = len(works)
	}

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan Work)
	g.Go(func() error {
		Dispatcher(gctx, works, queue)
		return nil
	})
	for id := 1; id <= workers; id++ {
		id := id
		g.Go(func() error {
			return Worker(gctx, id, queue, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
