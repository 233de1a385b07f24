// Package pool provides a bounded fan-out for per-request roster scoring.
package pool

import (
	"context"
	"runtime"
	"sync"
)

// Default pool configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent workers.
func WithWorkers(count int) Option {
	return func(p *Pool) {
		if count > 0 {
			p.workers = count
		}
	}
}

// Pool runs index-addressed jobs with a fixed concurrency bound. Matching is
// read-only over shared roster data, so jobs need no coordination beyond the
// completion barrier; each job writes only its own slot of the caller's
// result slice.
type Pool struct {
	workers int
}

// New creates a Pool with configuration options.
func New(opts ...Option) *Pool {
	p := &Pool{
		workers: runtime.NumCPU() * defaultWorkerMultiplier,
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Workers returns the configured concurrency bound.
func (p *Pool) Workers() int {
	return p.workers
}

// Map invokes fn for every index in [0, n), using at most the configured
// number of goroutines, and blocks until all invocations return. When ctx is
// cancelled remaining indices are skipped; in-flight jobs observe the
// cancellation through their own ctx.
func (p *Pool) Map(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}

	workers := p.workers
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}
