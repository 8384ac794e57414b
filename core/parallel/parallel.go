// Package parallel chunks index ranges across CPU cores. The helpers carry
// the data-parallel parts of the library: batch activation in the forward
// pass and population fitness evaluation in the metaheuristic optimizers.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) into one contiguous chunk per worker and
// calls fn(start, end) for each chunk on its own goroutine. It blocks until
// every chunk is done. fn must be safe to run concurrently on disjoint
// ranges.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}

	// Ceiling division so the last chunk absorbs the remainder.
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items is at or below threshold, and parallelizes otherwise. Small batches
// are not worth the goroutine overhead.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// MapFloat64 evaluates fn for every index in [0, items) in parallel and
// collects the results. It is used for population fitness evaluation in the
// metaheuristic optimizers, where each evaluation is independent and
// relatively expensive (a full forward pass plus a least-squares solve).
func MapFloat64(items int, fn func(i int) float64) []float64 {
	results := make([]float64, items)
	Parallelize(items, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = fn(i)
		}
	})
	return results
}
