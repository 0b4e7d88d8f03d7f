package crawler

import (
	"context"
	"sync"

	"github.com/mpievolbio-scicomp/tripser-go/internal/fetcher"
	"github.com/mpievolbio-scicomp/tripser-go/internal/rdf"
)

// Result is the outcome of fetching one task. Workers return pure results;
// they never touch engine state.
type Result struct {
	Task  Task
	Graph *rdf.Graph
	Err   error
}

// Dispatcher resolves one wave of tasks through a fetcher and returns a
// result per task, in task order. Dispatch must not return before every
// fetch of the wave has completed.
type Dispatcher interface {
	Dispatch(ctx context.Context, f fetcher.Fetcher, tasks []Task) []Result
}

// SerialDispatcher resolves tasks one at a time in the calling goroutine.
type SerialDispatcher struct{}

// Dispatch fetches each task in order.
func (SerialDispatcher) Dispatch(ctx context.Context, f fetcher.Fetcher, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	for i, task := range tasks {
		g, err := f.Fetch(ctx, string(task))
		results[i] = Result{Task: task, Graph: g, Err: err}
	}
	return results
}

// PoolDispatcher resolves a wave's tasks on a bounded pool of goroutines and
// gathers all results before returning.
type PoolDispatcher struct {
	Workers int
}

// Dispatch fans the wave out over the pool.
func (p PoolDispatcher) Dispatch(ctx context.Context, f fetcher.Fetcher, tasks []Task) []Result {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	results := make([]Result, len(tasks))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				g, err := f.Fetch(ctx, string(tasks[i]))
				results[i] = Result{Task: tasks[i], Graph: g, Err: err}
			}
		}()
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return results
}
