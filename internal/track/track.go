// Package track keeps per-key access metadata for cached assets and
// selects eviction victims ordered by (priority ascending, recency
// ascending).
package track

import "time"

// Entry is the tracked metadata for one cached key. It is bookkeeping
// only; the instance itself lives elsewhere.
type Entry struct {
	Key        string
	Size       int64
	Priority   uint8
	LastAccess time.Time
	// Seq orders entries by recency. Sequence numbers are issued by the
	// caller and must be strictly increasing, which makes them
	// comparable across trackers sharing one counter.
	Seq uint64
}

// Tracker records accesses and answers victim queries.
//
// Victim selection uses a value-based binary min-heap keyed by
// (priority, seq) with lazy invalidation: Record and Remove leave
// superseded heap items in place, queries skip items whose sequence
// number no longer matches the live record, and the heap is rebuilt
// from the live records once stale items outnumber them. This keeps
// upserts and victim selection at O(log n) where the original linear
// scan-and-sort degraded at scale.
//
// Tracker is not self-locking; callers serialize access.
type Tracker struct {
	entries map[string]Entry
	heap    []heapItem
}

type heapItem struct {
	key  string
	prio uint8
	seq  uint64
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{entries: make(map[string]Entry)}
}

// Record upserts the metadata for key: any prior record is superseded,
// so the most recently recorded entry is the most recently used.
func (t *Tracker) Record(key string, size int64, prio uint8, now time.Time, seq uint64) {
	t.entries[key] = Entry{
		Key:        key,
		Size:       size,
		Priority:   prio,
		LastAccess: now,
		Seq:        seq,
	}
	t.push(heapItem{key: key, prio: prio, seq: seq})
	t.maybeCompact()
}

// Remove drops the record for key and returns it for size accounting.
func (t *Tracker) Remove(key string) (Entry, bool) {
	e, ok := t.entries[key]
	if !ok {
		return Entry{}, false
	}
	delete(t.entries, key)
	t.maybeCompact()
	return e, true
}

// Victim returns the entry with the lowest (priority, recency) whose
// priority is below limit. ok is false when every tracked entry is at
// or above limit, or nothing is tracked. The returned entry stays
// tracked until Remove is called.
func (t *Tracker) Victim(limit uint8) (Entry, bool) {
	for len(t.heap) > 0 {
		top := t.heap[0]
		e, live := t.entries[top.key]
		if !live || e.Seq != top.seq {
			// Superseded by a later Record or removed; discard.
			t.pop()
			continue
		}
		if top.prio >= limit {
			// Heap order guarantees every live entry is exempt too.
			return Entry{}, false
		}
		return e, true
	}
	return Entry{}, false
}

// Len returns the number of tracked keys.
func (t *Tracker) Len() int { return len(t.entries) }

// Clear drops all records.
func (t *Tracker) Clear() {
	clear(t.entries)
	t.heap = t.heap[:0]
}

// compactFloor keeps tiny heaps from being rebuilt on every operation.
const compactFloor = 64

// maybeCompact rebuilds the heap from the live records once stale items
// outnumber them. Without it a long run of hits under budget would grow
// the heap by one item per access, since stale items are otherwise
// discarded only by Victim. The rebuild is O(live), triggered after at
// least as many operations, so the amortized cost per upsert stays
// constant and auxiliary memory stays proportional to tracked keys.
func (t *Tracker) maybeCompact() {
	if len(t.heap) < compactFloor || len(t.heap) <= 2*len(t.entries) {
		return
	}
	live := make([]heapItem, 0, len(t.entries))
	for _, e := range t.entries {
		live = append(live, heapItem{key: e.Key, prio: e.Priority, seq: e.Seq})
	}
	t.heap = live
	for i := len(t.heap)/2 - 1; i >= 0; i-- {
		t.siftDown(i)
	}
}

func (t *Tracker) less(a, b heapItem) bool {
	if a.prio != b.prio {
		return a.prio < b.prio
	}
	return a.seq < b.seq
}

func (t *Tracker) push(item heapItem) {
	t.heap = append(t.heap, item)
	t.siftUp(len(t.heap) - 1)
}

func (t *Tracker) pop() {
	n := len(t.heap)
	last := t.heap[n-1]
	t.heap[n-1] = heapItem{}
	t.heap = t.heap[:n-1]
	if n-1 > 0 {
		t.heap[0] = last
		t.siftDown(0)
	}
}

func (t *Tracker) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !t.less(t.heap[i], t.heap[p]) {
			return
		}
		t.heap[i], t.heap[p] = t.heap[p], t.heap[i]
		i = p
	}
}

func (t *Tracker) siftDown(i int) {
	n := len(t.heap)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && t.less(t.heap[r], t.heap[l]) {
			best = r
		}
		if !t.less(t.heap[best], t.heap[i]) {
			return
		}
		t.heap[i], t.heap[best] = t.heap[best], t.heap[i]
		i = best
	}
}
