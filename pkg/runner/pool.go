package runner

import (
	"context"
	"runtime"
	"sync"
)

// forEach calls fn for every item on at most jobs goroutines and returns
// the results in item order. Items not started before ctx is cancelled
// keep their zero value and are reported by the returned done slice.
func forEach[T, R any](ctx context.Context, items []T, jobs int, fn func(context.Context, T) R) ([]R, []bool) {
	results := make([]R, len(items))
	done := make([]bool, len(items))

	if len(items) == 0 {
		return results, done
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	jobs = min(jobs, len(items))

	work := make(chan int)

	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range work {
				results[i] = fn(ctx, items[i])
				done[i] = true
			}
		}()
	}

feed:
	for i := range items {
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}

	close(work)
	wg.Wait()

	return results, done
}
