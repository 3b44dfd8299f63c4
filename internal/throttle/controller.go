// Package throttle bounds loader concurrency and IO while tracking the
// aggregate memory footprint of cached assets.
package throttle

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentLoads caps simultaneous loader invocations.
	// If 0, unlimited.
	MaxConcurrentLoads int64

	// IOLimitBytesPerSec is the maximum read throughput for loaders.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared limits for a cache manager: loader slots,
// loader IO bandwidth and the aggregate tracked memory counter.
//
// The memory counter is tracking only. The budget is a soft cap
// (critical entries may push usage past it), so enforcement lives with
// the eviction policy, not here.
type Controller struct {
	loadSem   *semaphore.Weighted // nil if unlimited
	ioLimiter *rate.Limiter       // nil if unlimited
	memUsed   atomic.Int64
}

// NewController creates a controller for the given limits.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MaxConcurrentLoads > 0 {
		c.loadSem = semaphore.NewWeighted(cfg.MaxConcurrentLoads)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireLoadSlot blocks until a loader slot is free or ctx is
// canceled.
func (c *Controller) AcquireLoadSlot(ctx context.Context) error {
	if c == nil || c.loadSem == nil {
		return nil
	}
	return c.loadSem.Acquire(ctx, 1)
}

// ReleaseLoadSlot releases a loader slot.
func (c *Controller) ReleaseLoadSlot() {
	if c == nil || c.loadSem == nil {
		return
	}
	c.loadSem.Release(1)
}

// ReserveMemory adds bytes to the tracked aggregate.
func (c *Controller) ReserveMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	c.memUsed.Add(bytes)
}

// ReleaseMemory subtracts bytes from the tracked aggregate.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the aggregate tracked memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// IOLimiter returns the shared loader IO limiter, or nil when IO is
// unlimited.
func (c *Controller) IOLimiter() *rate.Limiter {
	if c == nil {
		return nil
	}
	return c.ioLimiter
}
