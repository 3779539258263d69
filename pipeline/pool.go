// Copyright 2025 phmmcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pipeline is the outer concurrency layer: it runs independent
// (profile, sequence) Jobs, each through Forward, Backward, Decoding
// and anchor-finding in that order, with every job owning its own
// matrices rather than sharing mutable state.
package pipeline

import (
	"runtime"
	"sync"

	"github.com/nilsvik/phmmcore/logsum"
)

// Pool bounds how many Jobs run at once. There are no persistent
// worker goroutines to park or shut down: each Job gets its own
// short-lived goroutine, admitted through a semaphore. Jobs vary
// widely in cost with sequence length, so this admits the next job
// the moment any slot frees, without a dispatcher deciding up front
// which worker gets which slice of the batch. A Pool may be shared by
// concurrent Run calls; the semaphore bounds their combined
// concurrency.
type Pool struct {
	workers int
	slots   chan struct{}
}

// New creates a Pool admitting up to workers concurrent Jobs. If
// workers <= 0, GOMAXPROCS is used. The LogSum lookup table is built
// here, once, so every job goroutine reads a table that is already
// immutable by the time it starts.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logsum.Init()
	return &Pool{
		workers: workers,
		slots:   make(chan struct{}, workers),
	}
}

// NumWorkers returns the concurrency bound.
func (p *Pool) NumWorkers() int { return p.workers }

// Close releases the pool. With no persistent goroutines there is
// nothing to tear down; Close exists so callers can scope a Pool with
// defer and is safe to call more than once.
func (p *Pool) Close() {}

// Run executes fn(j) for every Job in jobs, one goroutine per job,
// each admitted when a semaphore slot frees. Run blocks until every
// job has been processed and returns results in the same order as
// jobs regardless of completion order.
func (p *Pool) Run(jobs []Job, fn func(Job) Result) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		i := i
		p.slots <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-p.slots
				wg.Done()
			}()
			results[i] = fn(jobs[i])
		}()
	}
	wg.Wait()
	return results
}
