package animator

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/springpend/internal/kinematics"
	"github.com/san-kum/springpend/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Prerender computes samples [from, to) on workers goroutines and publishes
// them in index order. It returns the first error from any worker, the
// publisher or ctx.
func (a *Animator) Prerender(ctx context.Context, from, to, workers int) error {
	if a.state != ready {
		return ErrNotReady
	}
	if from < 0 || from > to {
		return &kinematics.IndexError{Index: from, Len: a.Len()}
	}
	if to > a.Len() {
		return &kinematics.IndexError{Index: to - 1, Len: a.Len()}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// Reuse still needs the first frame's springs built once.
	if a.mode == Reuse && from < to {
		if err := a.Advance(from); err != nil {
			return err
		}
		from++
	}
	count := to - from
	if count == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	slots := make([]chan *Output, count)
	for i := range slots {
		slots[i] = make(chan *Output, 1)
	}

	g.Go(func() error {
		defer close(jobs)
		for n := from; n < to; n++ {
			select {
			case jobs <- n:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for n := range jobs {
				out, err := a.Compute(n)
				if err != nil {
					return err
				}
				slots[n-from] <- out
			}
			return nil
		})
	}

	g.Go(func() error {
		for i, slot := range slots {
			var out *Output
			select {
			case out = <-slot:
			case <-ctx.Done():
				return ctx.Err()
			}
			if a.mode == Reuse {
				out.Springs = a.cached
			}
			if err := a.publish(out); err != nil {
				return err
			}
			if (i+1)%progressEvery == 0 {
				logger.Debug("prerender progress", zap.Int("published", i+1), zap.Int("total", count))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("prerender [%d, %d): %w", from, to, err)
	}
	return nil
}

const progressEvery = 100
