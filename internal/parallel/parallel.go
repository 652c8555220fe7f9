// Package parallel is the matcher's concurrency substrate (spec §4.8,
// §5): a work-stealing fan-out of per-subject scoring with strided
// progress reporting, grounded on the teacher's hand-rolled
// semaphore+WaitGroup fan-out (parallel_evaluator.go's runWaveParallel)
// and worker pool (internal/worker_pool.go), but built on
// golang.org/x/sync/errgroup for the "first failure aborts the pass"
// contract instead of a hand-rolled result channel.
package parallel

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Progress reports done/total during a long-running pass.
type Progress func(done, total int)

// RunOpts configures a single RunInParallel call.
type RunOpts struct {
	// MaxWorkers bounds concurrency; 0 means unbounded (errgroup.SetLimit
	// is skipped, matching GOMAXPROCS-driven scheduling).
	MaxWorkers int

	// Stride overrides the default max(1, n/200) progress-report stride
	// from spec §4.8.
	Stride int

	Progress Progress
}

// RunInParallel dispatches one task per item in workSet, invoking worker
// for each, and reports progress at the configured stride. Per spec
// §4.8, a failure aborts the remaining tasks: errgroup cancels gctx on
// the first error, and any worker that observes gctx.Err() before it
// gets to run returns promptly instead of doing the work. Every worker's
// own failure is collected and returned, not just the first — more than
// one worker can fail before cancellation is visible to all of them, and
// the caller (matcher.newWorkerFailure) aggregates whatever comes back
// into one error. A worker skipped only because a sibling failed adds
// nothing to the result; one skipped because ctx itself was canceled
// adds that context error. An empty workSet returns nil immediately.
func RunInParallel[T any](ctx context.Context, workSet []T, worker func(context.Context, T) error, opts RunOpts) []error {
	n := len(workSet)
	if n == 0 {
		return nil
	}

	stride := opts.Stride
	if stride <= 0 {
		stride = n / 200
	}
	if stride < 1 {
		stride = 1
	}

	var limiter *rate.Limiter
	if opts.Progress != nil {
		// Cap progress callbacks to a sane rate regardless of stride size,
		// so a huge side with a tiny stride can't flood the caller.
		limiter = rate.NewLimiter(rate.Limit(50), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxWorkers > 0 {
		g.SetLimit(opts.MaxWorkers)
	}

	var done atomic.Int64
	var mu sync.Mutex
	var errs []error

	for _, item := range workSet {
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				if ctx.Err() != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return err
			}
			if err := worker(gctx, item); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return err
			}

			c := int(done.Add(1))
			if opts.Progress != nil && (c%stride == 0 || c == n) {
				if limiter == nil || limiter.Allow() || c == n {
					opts.Progress(c, n)
				}
			}
			return nil
		})
	}

	g.Wait()
	return errs
}
