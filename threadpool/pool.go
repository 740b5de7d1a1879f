// Package threadpool implements the fixed bulk-synchronous worker pool
// the MSM engine runs its phases on: a fixed worker count, a barrier that
// separates phases, and a work-range splitter, per §4.10/§5. Workers are
// not long-lived: each Barrier call launches one goroutine per worker for
// that phase and waits for all of them to return. There is no task queue
// and no per-element scheduling, matching the "OS threads, no event loop"
// instruction in the design notes.
package threadpool

import (
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// Range is a half-open index range [Start, End) assigned to one worker.
type Range struct {
	Start, End int
}

// Pool is a fixed set of workers sharing one barrier. Workers are
// goroutines rather than OS threads (Go has no direct OS-thread handle),
// which is the idiomatic reading of §4.10's "fixed pool of T workers" —
// the GOMAXPROCS scheduler maps them onto OS threads underneath.
type Pool struct {
	n int

	mu      sync.Mutex
	started bool
}

// New returns a pool sized for n workers, or GOMAXPROCS workers if n is
// 0. It starts no goroutines, and neither does Start, which only marks
// the pool active; goroutines exist only while a Barrier call runs.
func New(n int) *Pool {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{n: n}
}

// N returns the configured worker count.
func (p *Pool) N() int { return p.n }

// Start marks the pool as active. Calling Start twice is a configuration
// error (§7 kind 3) — threads started twice — surfaced as a panic since
// it is a programmer error at the call site, not a runtime condition
// callers should recover from.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		panic("threadpool: threads already started")
	}
	p.started = true
}

// Stop marks the pool as inactive, allowing a later Start.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
}

// Range partitions [0, total) into p.N() contiguous ranges, distributing
// the remainder across the first ranges so no worker gets more than one
// extra element, and returns the range belonging to worker index i.
func (p *Pool) Range(total, i int) Range {
	base := total / p.n
	rem := total % p.n
	start := i*base + min(i, rem)
	end := start + base
	if i < rem {
		end++
	}
	return Range{Start: start, End: end}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Barrier runs fn once per worker across p.N() goroutines and blocks
// until every invocation returns, then aggregates any errors via
// multierr, so the returned error (nil when every worker succeeded)
// carries every worker's failure rather than only the first one observed.
func (p *Pool) Barrier(fn func(worker, n int) error) error {
	var wg sync.WaitGroup
	errs := make([]error, p.n)
	wg.Add(p.n)
	for i := 0; i < p.n; i++ {
		go func(worker int) {
			defer wg.Done()
			errs[worker] = fn(worker, p.n)
		}(i)
	}
	wg.Wait()
	return multierr.Combine(errs...)
}

// BroadcastFromMain computes build() exactly once (on the calling
// goroutine) and returns its result — the shared rendezvous §4.10
// describes for publishing a value all workers subsequently read.
// Because Barrier already establishes a full memory fence around each
// phase, calling BroadcastFromMain before a Barrier phase is sufficient
// to make its result visible to every worker in that phase.
func BroadcastFromMain[T any](build func() T) T {
	return build()
}
