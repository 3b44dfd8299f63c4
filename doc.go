// Package assetcache provides a deduplicating, memory-budgeted cache
// with asynchronous loading for heavyweight engine assets such as
// textures and meshes.
//
// Assets are expensive to construct and shared by reference across the
// scene, so the cache stores non-owning observers: a cached instance
// stays alive exactly as long as handles returned to callers do, and
// stale bookkeeping is pruned lazily or via GarbageCollect. An optional
// byte budget evicts the least recently used entries first, ordered by
// priority tier; PriorityCritical entries are never evicted.
//
// # Quick Start
//
// One Manager owns the worker pool and the budget; each resource type
// gets its own typed cache:
//
//	mgr := assetcache.NewManager(
//	    assetcache.WithMemoryBudget(512 << 20),
//	    assetcache.WithWorkers(4),
//	)
//	defer mgr.Close()
//
//	textures := assetcache.NewCache[Texture](mgr, "textures")
//
//	key := assetcache.MakeKey("bricks.png", "srgb")
//	tex, err := textures.LoadSync(ctx, key, loadBricks, assetcache.PriorityMedium)
//
// Asynchronous loads return a future and never block the caller:
//
//	fut := textures.LoadAsync(key, loadBricks, assetcache.PriorityHigh)
//	tex, err := fut.Wait(ctx)
//
// The key carries every load parameter that affects the produced
// instance; the same path loaded with different parameters caches
// independently. In-memory buffers are deduplicated by content hash
// via LoadBytesSync, so the same embedded payload under two debug
// labels yields one cached instance.
//
// The cache holds no on-disk or wire format and never loads anything
// itself: decoding and GPU object creation live in the caller-supplied
// loader functions.
package assetcache
