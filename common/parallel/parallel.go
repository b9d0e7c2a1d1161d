// Package parallel provides the fork-join loop splitting used by the
// benchmark kernels: an index range is cut into one contiguous chunk per
// worker goroutine, and the call returns only after every worker has
// finished, so each call is a complete parallel region with an implicit
// barrier at its end. Reductions merge per-worker partial sums on the
// calling goroutine; the merge order is the worker completion order, so
// floating-point results are reproducible only up to reassociation.
package parallel

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// Number is any type a reduction can accumulate with +.
type Number interface {
	constraints.Integer | constraints.Float
}

// bounds returns the chunk [lo, hi) owned by worker id, with the last
// worker absorbing the remainder.
func bounds(id, workers, n int) (int, int) {
	chunk := n / workers
	lo := id * chunk
	hi := lo + chunk
	if id == workers-1 {
		hi = n
	}
	return lo, hi
}

func clampWorkers(workers, n int) int {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	return workers
}

// For runs body over [0, n) split across workers goroutines and waits
// for all of them.
func For(n, workers int, body func(lo, hi int)) {
	ForWorker(n, workers, func(_, lo, hi int) { body(lo, hi) })
}

// ForWorker is For with the worker index exposed to the body, for
// kernels that keep per-worker scratch buffers.
func ForWorker(n, workers int, body func(id, lo, hi int)) {
	if n <= 0 {
		return
	}
	workers = clampWorkers(workers, n)

	var wg sync.WaitGroup
	wg.Add(workers)
	for id := 0; id < workers; id++ {
		go func(id int) {
			defer wg.Done()
			lo, hi := bounds(id, workers, n)
			body(id, lo, hi)
		}(id)
	}
	wg.Wait()
}

// Sum reduces body's per-chunk partial sums over [0, n).
func Sum[T Number](n, workers int, body func(lo, hi int) T) T {
	var total T
	if n <= 0 {
		return total
	}
	workers = clampWorkers(workers, n)

	parts := make(chan T, workers)
	for id := 0; id < workers; id++ {
		go func(id int) {
			lo, hi := bounds(id, workers, n)
			parts <- body(lo, hi)
		}(id)
	}
	for i := 0; i < workers; i++ {
		total += <-parts
	}
	return total
}

// Sum2 is Sum for loops that accumulate two sums in a single pass.
func Sum2[T Number](n, workers int, body func(lo, hi int) (T, T)) (T, T) {
	var totalA, totalB T
	if n <= 0 {
		return totalA, totalB
	}
	workers = clampWorkers(workers, n)

	type pair struct{ a, b T }
	parts := make(chan pair, workers)
	for id := 0; id < workers; id++ {
		go func(id int) {
			lo, hi := bounds(id, workers, n)
			a, b := body(lo, hi)
			parts <- pair{a, b}
		}(id)
	}
	for i := 0; i < workers; i++ {
		p := <-parts
		totalA += p.a
		totalB += p.b
	}
	return totalA, totalB
}
