package flip

import (
	"runtime"
	"sync"
)

// parallelRange runs fn(start, end) for disjoint, contiguous [start, end)
// slices of [0, n), on a worker pool sized to GOMAXPROCS (capped, mirroring
// the teacher's particle-emitter worker pool in particles_ecs.go, which caps
// at 8 workers to avoid oversubscribing small jobs). This is the CPU
// backend's analogue of a single GPU compute dispatch: every slice index is
// logically independent, and the call blocks until all workers finish,
// matching the host's dispatch-then-barrier contract between pipeline
// stages (spec.md 5).
func parallelRange(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > 8 {
		workers = 8
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	if workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}
