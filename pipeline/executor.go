package pipeline

import (
	"context"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Executor runs independent jobs on a bounded pool of goroutines. It is an
// explicit object scoped to one run: no process-wide backend registration,
// nothing to tear down beyond letting it go out of scope.
type Executor struct {
	workers int
}

// NewExecutor creates an Executor with the given worker bound.
// A bound below 1 defaults to the number of CPU cores.
func NewExecutor(workers int) *Executor {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Executor{workers: workers}
}

// Workers returns the worker bound.
func (e *Executor) Workers() int { return e.workers }

// Run executes all jobs and returns one error slot per job, index-aligned.
// A failing job never affects its siblings; cancellation via ctx marks the
// not-yet-started jobs with the context error.
func (e *Executor) Run(ctx context.Context, jobs []func() error) []error {
	errs := make([]error, len(jobs))

	workers := e.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				errs[i] = jobs[i]()
			}
		}()
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			errs[i] = errors.Wrap(err, "job not started")
			continue
		}
		select {
		case <-ctx.Done():
			errs[i] = errors.Wrap(ctx.Err(), "job not started")
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
	return errs
}
