// Package pool runs deferred asset loads on a fixed set of worker
// goroutines draining a single FIFO queue.
package pool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("pool: closed")

// Pool is a fixed-size worker pool. Work is dequeued FIFO, but several
// workers run concurrently, so tasks submitted back-to-back may
// complete in either order; only per-task delivery is ordered.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	wg      sync.WaitGroup
	pending atomic.Int64 // queued + running
}

// New starts a pool with n workers. If n <= 0 the pool sizes itself to
// the available parallelism, with a floor of 4.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
		if n < 4 {
			n = 4
		}
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

// Submit enqueues fn for execution by any worker. Once queued a task
// always runs to completion; there is no cancellation.
func (p *Pool) Submit(fn func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.queue = append(p.queue, fn)
	p.pending.Add(1)
	p.mu.Unlock()

	p.cond.Signal()
	return nil
}

// Pending returns the number of queued plus running tasks.
func (p *Pool) Pending() int {
	return int(p.pending.Load())
}

// Close stops intake, lets the workers drain everything already queued
// and joins them. Safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// closed and drained
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		task()
		p.pending.Add(-1)
	}
}
