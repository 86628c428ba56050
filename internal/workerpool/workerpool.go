// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package workerpool fans an ISD search out across T goroutines, one
// internal/isd.Worker each, and arbitrates how they stop: first success
// wins for SD/QC/GO, while LW runs every worker to its iteration budget.
package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Result is one worker's accepted solution.
type Result struct {
	Worker int
	Weight int
	Vector []byte
}

// Stats is the benchmark-mode summary returned alongside any solution.
type Stats struct {
	Elapsed    time.Duration
	Iterations int64
}

// Pool runs T workers against a single stopFirst/LW policy.
type Pool struct {
	T         int
	StopFirst bool // true for SD/QC/GO; false lets every worker exhaust its budget (LW)

	// Benchmark, when > 0, caps each worker to ceil((Benchmark+workerID)/T)
	// iterations instead of running until a solution is found.
	Benchmark int64

	done  int32 // atomic: set once a StopFirst result lands
	iters int64 // atomic: total iterations run, across all workers
}

// IterBudget returns worker id's share of the benchmark iteration count,
// ceil((benchmark + id) / T), the same per-thread split the original
// OpenMP loop used; it returns -1 when benchmark mode is off, meaning
// "run until a solution is found". The caller's own iteration loop is
// responsible for comparing its local counter against this budget and
// calling CountIteration once per pass.
func (p *Pool) IterBudget(id int) int64 {
	if p.Benchmark <= 0 {
		return -1
	}
	return (p.Benchmark + int64(id) + int64(p.T) - 1) / int64(p.T)
}

// CountIteration records one completed ISD iteration in the pool-wide
// benchmark counter.
func (p *Pool) CountIteration() {
	atomic.AddInt64(&p.iters, 1)
}

// Run launches T workers, each driven by runOne(ctx, workerID) which must
// return once it decides to stop: on budget exhaustion, ctx cancellation,
// or (in a StopFirst pool) Pool.Done() reporting true. The non-nil Results
// runOne returns are delivered over the returned channel in completion
// order (in a StopFirst pool, only the first one); Run closes it once
// every worker has returned.
// The returned Stats is filled in only after the result channel has been
// drained and closed: its Elapsed/Iterations fields are zero-valued until
// then, since Go's channel-close happens-before guarantee is what makes
// reading them afterwards race-free without a second wait call.
func (p *Pool) Run(ctx context.Context, runOne func(ctx context.Context, workerID int, pool *Pool) *Result) (<-chan Result, *Stats) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Result, p.T)
	stats := &Stats{}

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(p.T)
	for id := 0; id < p.T; id++ {
		id := id
		go func() {
			defer wg.Done()
			r := runOne(ctx, id, p)
			if r == nil {
				return
			}
			if p.StopFirst {
				if !atomic.CompareAndSwapInt32(&p.done, 0, 1) {
					return
				}
				cancel()
			}
			out <- *r
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		stats.Elapsed = time.Since(start)
		stats.Iterations = atomic.LoadInt64(&p.iters)
		close(out)
	}()

	return out, stats
}

// Done reports whether a StopFirst pool has already accepted a result;
// workers poll this between iterations alongside ctx.Err(). LW's own
// shared best-weight bound lives in isd.Shared, guarded by its own mutex;
// every worker in a run already holds a pointer to the one isd.Shared
// instance, so no separate tracker belongs here.
func (p *Pool) Done() bool {
	return atomic.LoadInt32(&p.done) == 1
}
