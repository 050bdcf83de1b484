// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs independent jobs on a fixed set of goroutines
// that live as long as the Pool. Unfiltering is sequential within an image
// but images (and Adam7 passes) are independent of each other, so a decoder
// handling many images creates one Pool and hands it every batch.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	pool.ForEach(len(images), func(i int) {
//	    pngfilter.UnfilterLines(images[i].Data, images[i].RowLen, images[i].BPP)
//	})
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a set of persistent workers. Its methods may be called from
// several goroutines at once, Close included.
type Pool struct {
	numWorkers int
	workC      chan workItem

	// mu is held for reading while work is sent and for writing by Close,
	// so workC is never closed under a sender.
	mu     sync.RWMutex
	closed bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New starts a pool of numWorkers goroutines, or GOMAXPROCS of them if
// numWorkers <= 0. They run until Close.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool. A nil Pool has
// one: the calling goroutine.
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}
	return p.numWorkers
}

// Close stops the workers once pending work completes. It is safe to call
// more than once and concurrently with ForEach; calls that start after
// Close run on the calling goroutine.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.workC)
	}
}

// ForEach calls fn(i) for every i in [0, n) and returns when all calls
// have returned. Workers claim the next index from a shared counter, so a
// few large images do not hold up a worker's share of small ones.
//
// A nil Pool runs everything on the calling goroutine.
func (p *Pool) ForEach(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if p == nil || min(p.numWorkers, n) == 1 || !p.dispatch(n, fn) {
		for i := range n {
			fn(i)
		}
	}
}

// dispatch runs fn over [0, n) on the workers and waits for it. It returns
// false without running anything if the pool is closed.
func (p *Pool) dispatch(n int, fn func(i int)) bool {
	workers := min(p.numWorkers, n)
	var next atomic.Int64
	var wg sync.WaitGroup

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return false
	}
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					i := int(next.Add(1)) - 1
					if i >= n {
						return
					}
					fn(i)
				}
			},
			barrier: &wg,
		}
	}
	p.mu.RUnlock()

	wg.Wait()
	return true
}

// ForEachBatch is ForEach with indices claimed batchSize at a time; fn
// receives the half-open range [start, end). Use it when per-index work is
// too small to be worth an atomic operation each, such as tiny images.
func (p *Pool) ForEachBatch(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	batches := (n + batchSize - 1) / batchSize
	p.ForEach(batches, func(b int) {
		start := b * batchSize
		fn(start, min(start+batchSize, n))
	})
}
