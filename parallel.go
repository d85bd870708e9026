package photoenhance

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	maxParallelWorkers atomic.Int64
	workerSemOnce      sync.Once
	workerSem          chan struct{}
)

// SetMaxWorkers limits the number of goroutines used by parallel operations, n <= 0 means GOMAXPROCS.
// The shared semaphore is sized by the first parallel operation, later calls can only lower the limit.
func SetMaxWorkers(n int) {
	maxParallelWorkers.Store(int64(n))
}

// workerLimit returns the number of goroutines a parallel operation may use.
func workerLimit() int {
	capacity := runtime.GOMAXPROCS(0)
	if limit := int(maxParallelWorkers.Load()); limit > 0 && capacity > limit {
		capacity = limit
	}
	return max(capacity, 1)
}

// parallelFor splits [0, total) into contiguous ranges and runs fn on each of them.
// All calls share one process-wide semaphore, so nested or concurrent callers
// do not oversubscribe the CPU.
func parallelFor(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	capacity := workerLimit()
	workerSemOnce.Do(func() {
		workerSem = make(chan struct{}, capacity)
	})
	workers := min(capacity, cap(workerSem), total)
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * step
		end := min(start+step, total)
		if start >= end {
			break
		}
		workerSem <- struct{}{}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() { <-workerSem }()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
