package assetcache

import (
	"context"
	"sync/atomic"
)

// LoadStatus tracks the lifecycle of an asynchronous load.
type LoadStatus int32

const (
	// StatusQueued means the load is waiting for a worker.
	StatusQueued LoadStatus = iota
	// StatusRunning means a worker is executing the loader.
	StatusRunning
	// StatusComplete means the result is available.
	StatusComplete
	// StatusFailed means the loader returned an error.
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Future is the single-assignment result slot of an asynchronous load.
// A future completes exactly once, with either a value or an error, and
// can be waited on or polled by any number of goroutines.
type Future[T any] struct {
	done   chan struct{}
	status atomic.Int32
	val    T
	err    error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved returns an already-completed future carrying v. Used for the
// cache-hit fast path, where the loader is never invoked.
func Resolved[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.complete(v, nil)
	return f
}

// Failed returns an already-completed future carrying err.
func Failed[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.complete(zero, err)
	return f
}

// Wait blocks until the load completes or ctx is canceled. Canceling
// ctx abandons the wait only; the load itself still runs to completion.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Ready reports whether the result is available without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Status reports the current lifecycle state.
func (f *Future[T]) Status() LoadStatus {
	return LoadStatus(f.status.Load())
}

func (f *Future[T]) markRunning() {
	f.status.CompareAndSwap(int32(StatusQueued), int32(StatusRunning))
}

func (f *Future[T]) complete(v T, err error) {
	f.val = v
	f.err = err
	if err != nil {
		f.status.Store(int32(StatusFailed))
	} else {
		f.status.Store(int32(StatusComplete))
	}
	close(f.done)
}
