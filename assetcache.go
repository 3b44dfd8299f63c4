package assetcache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/forge3d/assetcache/internal/pool"
	"github.com/forge3d/assetcache/internal/throttle"
)

// Manager owns the shared machinery of the cache: the async-load worker
// pool, the memory budget with its eviction policy, and the registry of
// typed caches. It is constructed with the engine and torn down with
// it; there is no package-level state.
//
// All methods are safe for concurrent use.
type Manager struct {
	logger  *slog.Logger
	metrics MetricsCollector
	pool    *pool.Pool
	ctl     *throttle.Controller

	budget atomic.Int64
	seq    atomic.Uint64

	mu     sync.Mutex // guards caches
	caches []typedCache

	evictMu sync.Mutex // serializes budget enforcement passes

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	workers            int
	maxConcurrentLoads int64
	ioLimit            int64
}

// typedCache is the non-generic face a Cache[T] presents to its Manager.
type typedCache interface {
	cacheName() string
	aliveCount() int
	runGC() int
	clearAll()
	peekVictim() (victim, bool)
	evictKey(key string) (int64, bool)
}

// victim identifies the eviction candidate of one typed cache. Sequence
// numbers come from the manager's shared counter, so they order recency
// across caches.
type victim struct {
	key      string
	size     int64
	priority Priority
	seq      uint64
}

func (v victim) before(other victim) bool {
	if v.priority != other.priority {
		return v.priority < other.priority
	}
	return v.seq < other.seq
}

// NewManager creates a Manager. Typed caches are attached with NewCache.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger:  slog.New(slog.DiscardHandler),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctl = throttle.NewController(throttle.Config{
		MaxConcurrentLoads: m.maxConcurrentLoads,
		IOLimitBytesPerSec: m.ioLimit,
	})
	m.pool = pool.New(m.workers)
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// Close stops intake of new loads, drains everything already queued,
// joins the workers and releases the manager. Cached bookkeeping is
// left in place; instances owned elsewhere are untouched.
func (m *Manager) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.pool.Close()
	m.cancel()
	return nil
}

// GarbageCollect prunes every entry whose instance has been released by
// all owners, recomputes the tracked memory from the survivors and
// returns how many entries were removed.
func (m *Manager) GarbageCollect() int {
	start := time.Now()
	removed := 0
	for _, c := range m.snapshot() {
		removed += c.runGC()
	}
	m.metrics.RecordGC(removed, time.Since(start))
	m.logger.Debug("cache gc", "removed", removed, "usage", m.MemoryUsage())
	return removed
}

// SetMemoryBudget updates the byte ceiling; 0 means unlimited. Lowering
// it below current usage evicts immediately.
func (m *Manager) SetMemoryBudget(bytes int64) {
	m.budget.Store(bytes)
	m.enforceBudget()
}

// MemoryBudget returns the configured ceiling in bytes (0 = unlimited).
func (m *Manager) MemoryBudget() int64 { return m.budget.Load() }

// MemoryUsage returns the aggregate tracked memory across all caches.
func (m *Manager) MemoryUsage() int64 { return m.ctl.MemoryUsage() }

// CachedCount returns the number of live cached instances across all
// caches.
func (m *Manager) CachedCount() int {
	n := 0
	for _, c := range m.snapshot() {
		n += c.aliveCount()
	}
	return n
}

// ClearAll drops all bookkeeping for every cache immediately. Instances
// still owned elsewhere are not destroyed.
func (m *Manager) ClearAll() {
	for _, c := range m.snapshot() {
		c.clearAll()
	}
}

// PendingAsyncLoads returns the number of queued plus running async
// loads. Fast-path hits never enter the queue and are not counted.
func (m *Manager) PendingAsyncLoads() int { return m.pool.Pending() }

// WaitForAsyncLoads blocks until no async loads are queued or running.
// It polls; per-load completion is observed through the individual
// futures instead.
func (m *Manager) WaitForAsyncLoads() {
	for m.pool.Pending() > 0 {
		time.Sleep(10 * time.Millisecond)
	}
}

// IOLimiter returns the shared loader IO limiter configured via
// WithIOLimit, or nil when IO is unlimited. Pass it to the assetio
// read helpers inside loader functions.
func (m *Manager) IOLimiter() *rate.Limiter { return m.ctl.IOLimiter() }

func (m *Manager) register(c typedCache) {
	m.mu.Lock()
	m.caches = append(m.caches, c)
	m.mu.Unlock()
}

func (m *Manager) snapshot() []typedCache {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]typedCache(nil), m.caches...)
}

func (m *Manager) nextSeq() uint64 { return m.seq.Add(1) }

// enforceBudget evicts entries ordered by (priority, recency) until
// usage fits the budget or only critical entries remain. The budget is
// a soft cap: an all-critical cache may stay over it.
func (m *Manager) enforceBudget() {
	budget := m.budget.Load()
	if budget <= 0 {
		return
	}

	m.evictMu.Lock()
	defer m.evictMu.Unlock()

	caches := m.snapshot()
	for m.ctl.MemoryUsage() > budget {
		var best victim
		var owner typedCache
		for _, c := range caches {
			if v, ok := c.peekVictim(); ok && (owner == nil || v.before(best)) {
				best, owner = v, c
			}
		}
		if owner == nil {
			// Only critical entries remain.
			return
		}
		size, ok := owner.evictKey(best.key)
		if !ok {
			// The candidate vanished between peek and evict; rescan.
			continue
		}
		m.metrics.RecordEviction(size)
		m.logger.Debug("evicted asset",
			"cache", owner.cacheName(),
			"key", best.key,
			"bytes", size,
			"priority", best.priority.String(),
		)
	}
}
