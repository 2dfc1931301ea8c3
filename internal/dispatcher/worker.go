package dispatcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Worker runs works from queue until it is closed, ctx is done, or a work
// fails.
func Worker(ctx context.Context, id int, queue <-chan Work, logger *zap.Logger) error {
	logger.Debug("starting worker", zap.Int("worker", id))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case work, ok := <-queue:
			if !ok {
				return nil
			}
			if err := work.Do(ctx); err != nil {
				logger.Debug("work failed",
					zap.Int("worker", id),
					zap.String("label", work.Label),
					zap.Error(err))
				return fmt.Errorf("%s: %w", work.Label, err)
			}
		}
	}
}
