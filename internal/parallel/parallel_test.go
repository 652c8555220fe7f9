package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunInParallel(t *testing.T) {
	Convey("Given an empty work set", t, func() {
		var called atomic.Int64
		errs := RunInParallel(context.Background(), []int{}, func(context.Context, int) error {
			called.Add(1)
			return nil
		}, RunOpts{})

		Convey("it returns immediately without invoking the worker", func() {
			So(errs, ShouldBeNil)
			So(called.Load(), ShouldEqual, 0)
		})
	})

	Convey("Given 50 items and a worker that always succeeds", t, func() {
		items := make([]int, 50)
		for i := range items {
			items[i] = i
		}
		var sum atomic.Int64
		var progressCalls atomic.Int64

		errs := RunInParallel(context.Background(), items, func(_ context.Context, i int) error {
			sum.Add(int64(i))
			return nil
		}, RunOpts{Progress: func(done, total int) {
			progressCalls.Add(1)
			So(total, ShouldEqual, 50)
		}})

		Convey("every item runs exactly once and progress is reported", func() {
			So(errs, ShouldBeNil)
			So(sum.Load(), ShouldEqual, 49*50/2)
			So(progressCalls.Load(), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a worker that fails on one item", t, func() {
		items := []int{1, 2, 3, 4, 5}
		boom := errors.New("boom")

		errs := RunInParallel(context.Background(), items, func(_ context.Context, i int) error {
			if i == 3 {
				return boom
			}
			return nil
		}, RunOpts{})

		Convey("the failure is the sole collected error", func() {
			So(len(errs), ShouldEqual, 1)
			So(errs[0], ShouldEqual, boom)
		})
	})

	Convey("Given every worker failing concurrently before cancellation can land", t, func() {
		items := []int{1, 2, 3}
		var start sync.WaitGroup
		start.Add(len(items))

		errs := RunInParallel(context.Background(), items, func(_ context.Context, i int) error {
			// Barrier: every worker must start before any of them is
			// allowed to return, so none can observe the others'
			// cancellation and bail out early instead of failing.
			start.Done()
			start.Wait()
			return fmt.Errorf("item %d failed", i)
		}, RunOpts{})

		Convey("every worker's own failure is collected, not just the first", func() {
			So(len(errs), ShouldEqual, len(items))
		})
	})
}
