package assetcache

import (
	"context"
	"sync"
	"time"

	"github.com/forge3d/assetcache/internal/contenthash"
	"github.com/forge3d/assetcache/internal/store"
	"github.com/forge3d/assetcache/internal/track"
)

// Asset is implemented by cacheable resource types. SizeBytes reports
// the approximate memory footprint used for budget accounting; it is
// read once per insert or refresh, not continuously.
//
// Implement SizeBytes with a value receiver so the concrete type
// satisfies the constraint directly.
type Asset interface {
	SizeBytes() int64
}

// Loader produces an instance for a cache miss. It may run on an
// arbitrary worker goroutine and may perform file IO and decoding; if
// it calls into a device layer that is not thread-safe, serializing
// those calls is the caller's contract.
type Loader[T any] func(ctx context.Context) (*T, error)

// BytesLoader decodes an instance from an in-memory buffer.
type BytesLoader[T any] func(ctx context.Context, data []byte) (*T, error)

// Cache is the keyed cache for one resource type. It holds non-owning
// observers only: an instance stays alive exactly as long as handles
// returned from Load calls do, and the cache prunes its bookkeeping
// lazily once the last one is released.
//
// All methods are safe for concurrent use. The cache lock is never held
// across a loader call, so a slow load cannot starve lookups; the cost
// is that two concurrent misses for the same key may both invoke their
// loaders, with the last insert winning.
type Cache[T Asset] struct {
	name string
	mgr  *Manager

	mu           sync.Mutex
	store        *store.Store[T]
	tracker      *track.Tracker
	contentToKey map[string]string
	usage        int64
}

// NewCache registers a typed cache named name with m. The name appears
// in logs only; keys of different caches never collide regardless.
func NewCache[T Asset](m *Manager, name string) *Cache[T] {
	c := &Cache[T]{
		name:         name,
		mgr:          m,
		store:        store.New[T](),
		tracker:      track.New(),
		contentToKey: make(map[string]string),
	}
	m.register(c)
	return c
}

// LoadSync returns the cached instance for key, or runs loader on the
// calling goroutine, caches the result and returns it. On a hit the
// supplied loader is never invoked. A loader failure is returned as a
// *LoadError and nothing is cached.
func (c *Cache[T]) LoadSync(ctx context.Context, key string, loader Loader[T], prio Priority) (*T, error) {
	start := time.Now()
	if inst, ok := c.hit(key, prio); ok {
		c.mgr.metrics.RecordLoad(time.Since(start), true, nil)
		return inst, nil
	}

	inst, err := c.invokeLoader(ctx, key, loader)
	if err != nil {
		c.mgr.metrics.RecordLoad(time.Since(start), false, err)
		return nil, err
	}
	c.commit(key, inst, prio)
	c.mgr.metrics.RecordLoad(time.Since(start), false, nil)
	return inst, nil
}

// LoadAsync returns a future for the instance under key. On a hit the
// future is already resolved and the loader is never invoked. On a miss
// the loader is queued on the shared worker pool; a loader failure is
// delivered through the future and nothing is cached.
//
// Two concurrent LoadAsync misses for the same key may each invoke
// their loader; the second insert silently overwrites the first's
// bookkeeping. Requests are not coalesced.
func (c *Cache[T]) LoadAsync(key string, loader Loader[T], prio Priority) *Future[*T] {
	if inst, ok := c.hit(key, prio); ok {
		c.mgr.metrics.RecordLoad(0, true, nil)
		return Resolved(inst)
	}

	f := newFuture[*T]()
	task := func() {
		f.markRunning()
		start := time.Now()
		inst, err := c.invokeLoader(c.mgr.ctx, key, loader)
		if err != nil {
			c.mgr.metrics.RecordLoad(time.Since(start), false, err)
			c.mgr.logger.Debug("async load failed", "cache", c.name, "key", key, "error", err)
			f.complete(nil, err)
			return
		}
		c.commit(key, inst, prio)
		c.mgr.metrics.RecordLoad(time.Since(start), false, nil)
		f.complete(inst, nil)
	}
	if err := c.mgr.pool.Submit(task); err != nil {
		return Failed[*T](ErrClosed)
	}
	return f
}

// LoadBytesSync loads an instance decoded from an in-memory buffer,
// deduplicating by content: identical bytes loaded under different
// labels resolve to the same cached instance. label only
// disambiguates the generated key for debugging.
func (c *Cache[T]) LoadBytesSync(ctx context.Context, data []byte, label string, loader BytesLoader[T], prio Priority) (*T, error) {
	start := time.Now()
	digest := contenthash.Sum(data)

	c.mu.Lock()
	if key, ok := c.contentToKey[digest]; ok {
		if inst, ok := c.store.Get(key); ok {
			c.tracker.Record(key, sizeOf(inst), uint8(prio), time.Now(), c.mgr.nextSeq())
			c.mu.Unlock()
			c.mgr.metrics.RecordLoad(time.Since(start), true, nil)
			return inst, nil
		}
	}
	c.mu.Unlock()

	key := "embedded:" + digest + "|" + label
	inst, err := loader(ctx, data)
	if err != nil {
		err = &LoadError{Key: key, cause: err}
		c.mgr.metrics.RecordLoad(time.Since(start), false, err)
		return nil, err
	}
	if inst == nil {
		err = &LoadError{Key: key, cause: errNilInstance}
		c.mgr.metrics.RecordLoad(time.Since(start), false, err)
		return nil, err
	}

	c.mu.Lock()
	c.contentToKey[digest] = key
	c.mu.Unlock()
	c.commit(key, inst, prio)
	c.mgr.metrics.RecordLoad(time.Since(start), false, nil)
	return inst, nil
}

// IsCached reports whether key currently maps to a live instance.
func (c *Cache[T]) IsCached(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Contains(key)
}

// Count returns the number of live cached instances.
func (c *Cache[T]) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Alive()
}

// Usage returns the tracked bytes for this cache alone.
func (c *Cache[T]) Usage() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// hit refreshes the tracker and returns the instance if key maps to a
// live one. A stale entry found on the way is pruned, tracker included.
func (c *Cache[T]) hit(key string, prio Priority) (*T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.store.Get(key)
	if !ok {
		if prev, had := c.tracker.Remove(key); had {
			c.usage -= prev.Size
			c.mgr.ctl.ReleaseMemory(prev.Size)
		}
		return nil, false
	}
	c.tracker.Record(key, sizeOf(inst), uint8(prio), time.Now(), c.mgr.nextSeq())
	return inst, true
}

// invokeLoader runs loader outside the cache lock, bounded by the
// manager's loader-slot limit.
func (c *Cache[T]) invokeLoader(ctx context.Context, key string, loader Loader[T]) (*T, error) {
	if err := c.mgr.ctl.AcquireLoadSlot(ctx); err != nil {
		return nil, &LoadError{Key: key, cause: err}
	}
	defer c.mgr.ctl.ReleaseLoadSlot()

	inst, err := loader(ctx)
	if err != nil {
		return nil, &LoadError{Key: key, cause: err}
	}
	if inst == nil {
		return nil, &LoadError{Key: key, cause: errNilInstance}
	}
	return inst, nil
}

// commit inserts the freshly loaded instance, updates tracking and
// aggregate usage, then enforces the budget.
func (c *Cache[T]) commit(key string, inst *T, prio Priority) {
	size := sizeOf(inst)

	c.mu.Lock()
	if prev, ok := c.tracker.Remove(key); ok {
		// Lost a same-key race: the earlier insert's bookkeeping is
		// replaced, never double counted.
		c.usage -= prev.Size
		c.mgr.ctl.ReleaseMemory(prev.Size)
	}
	c.store.Insert(key, inst)
	c.tracker.Record(key, size, uint8(prio), time.Now(), c.mgr.nextSeq())
	c.usage += size
	c.mu.Unlock()

	c.mgr.ctl.ReserveMemory(size)
	c.mgr.enforceBudget()
	c.mgr.logger.Debug("asset cached",
		"cache", c.name, "key", key, "bytes", size, "priority", prio.String())
}

func (c *Cache[T]) cacheName() string { return c.name }

func (c *Cache[T]) aliveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Alive()
}

// runGC prunes stale entries and recomputes this cache's tracked
// memory from the instances that remain alive.
func (c *Cache[T]) runGC() int {
	c.mu.Lock()
	removed := c.store.GC(func(key string) {
		c.tracker.Remove(key)
	})
	var live int64
	c.store.ForEachAlive(func(_ string, inst *T) {
		live += sizeOf(inst)
	})
	delta := live - c.usage
	c.usage = live
	c.mu.Unlock()

	if delta >= 0 {
		c.mgr.ctl.ReserveMemory(delta)
	} else {
		c.mgr.ctl.ReleaseMemory(-delta)
	}
	return removed
}

func (c *Cache[T]) clearAll() {
	c.mu.Lock()
	freed := c.usage
	c.store.Clear()
	c.tracker.Clear()
	clear(c.contentToKey)
	c.usage = 0
	c.mu.Unlock()

	c.mgr.ctl.ReleaseMemory(freed)
}

func (c *Cache[T]) peekVictim() (victim, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.tracker.Victim(uint8(PriorityCritical))
	if !ok {
		return victim{}, false
	}
	return victim{key: e.Key, size: e.Size, priority: Priority(e.Priority), seq: e.Seq}, true
}

// evictKey removes key from both the store and the tracker, returning
// the bytes released. Eviction touches bookkeeping only, never the
// instance.
func (c *Cache[T]) evictKey(key string) (int64, bool) {
	c.mu.Lock()
	e, ok := c.tracker.Remove(key)
	if !ok {
		c.mu.Unlock()
		return 0, false
	}
	c.store.Remove(key)
	c.usage -= e.Size
	c.mu.Unlock()

	c.mgr.ctl.ReleaseMemory(e.Size)
	return e.Size, true
}

func sizeOf[T Asset](p *T) int64 {
	return (*p).SizeBytes()
}
