package track

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prioLow      = 0
	prioMedium   = 1
	prioHigh     = 2
	prioCritical = 3
)

func TestTracker_VictimOrdering(t *testing.T) {
	tr := New()
	now := time.Now()

	tr.Record("high-old", 10, prioHigh, now, 1)
	tr.Record("medium-old", 10, prioMedium, now, 2)
	tr.Record("medium-new", 10, prioMedium, now, 3)
	tr.Record("low-new", 10, prioLow, now, 4)

	// Lowest priority wins over recency.
	v, ok := tr.Victim(prioCritical)
	require.True(t, ok)
	assert.Equal(t, "low-new", v.Key)

	tr.Remove("low-new")

	// Within the same priority, the oldest access wins.
	v, ok = tr.Victim(prioCritical)
	require.True(t, ok)
	assert.Equal(t, "medium-old", v.Key)
}

func TestTracker_RecordRefreshesRecency(t *testing.T) {
	tr := New()
	now := time.Now()

	tr.Record("a", 10, prioMedium, now, 1)
	tr.Record("b", 10, prioMedium, now, 2)

	// Touch "a": it becomes most recently used, so "b" is the victim.
	tr.Record("a", 10, prioMedium, now, 3)

	v, ok := tr.Victim(prioCritical)
	require.True(t, ok)
	assert.Equal(t, "b", v.Key)
	assert.Equal(t, 2, tr.Len())
}

func TestTracker_CriticalExempt(t *testing.T) {
	tr := New()
	now := time.Now()

	tr.Record("ui-atlas", 10, prioCritical, now, 1)
	tr.Record("player", 10, prioCritical, now, 2)

	_, ok := tr.Victim(prioCritical)
	assert.False(t, ok, "all-critical tracker must yield no victim")

	tr.Record("prop", 10, prioLow, now, 3)
	v, ok := tr.Victim(prioCritical)
	require.True(t, ok)
	assert.Equal(t, "prop", v.Key)
}

func TestTracker_RemoveAndClear(t *testing.T) {
	tr := New()
	now := time.Now()

	tr.Record("a", 42, prioMedium, now, 1)

	e, ok := tr.Remove("a")
	require.True(t, ok)
	assert.Equal(t, int64(42), e.Size)

	_, ok = tr.Remove("a")
	assert.False(t, ok)

	_, ok = tr.Victim(prioCritical)
	assert.False(t, ok)

	tr.Record("b", 1, prioLow, now, 2)
	tr.Clear()
	assert.Equal(t, 0, tr.Len())
	_, ok = tr.Victim(prioCritical)
	assert.False(t, ok)
}

func TestTracker_StaleHeapItemsSkipped(t *testing.T) {
	tr := New()
	now := time.Now()

	// Churn one key to pile up superseded heap items, then make sure the
	// victim query still lands on the genuinely oldest entry.
	var seq uint64
	for i := 0; i < 100; i++ {
		seq++
		tr.Record("churned", 10, prioLow, now, seq)
	}
	seq++
	tr.Record("settled", 10, prioLow, now, seq)
	seq++
	tr.Record("churned", 10, prioLow, now, seq)

	v, ok := tr.Victim(prioCritical)
	require.True(t, ok)
	assert.Equal(t, "settled", v.Key)
}

func TestTracker_HeapBoundedUnderHitChurn(t *testing.T) {
	tr := New()
	now := time.Now()

	// A hot key refreshed on every hit, with no victim queries in
	// between (the under-budget steady state). The heap must stay
	// proportional to the live records, not the access count.
	var seq uint64
	for i := 0; i < 100_000; i++ {
		seq++
		tr.Record("hot", 10, prioMedium, now, seq)
	}
	require.Equal(t, 1, tr.Len())
	assert.LessOrEqual(t, len(tr.heap), compactFloor)

	// Same bound with a working set, mixing refreshes and removals.
	for i := 0; i < 100_000; i++ {
		seq++
		tr.Record(fmt.Sprintf("asset-%d", i%32), 10, prioMedium, now, seq)
		if i%7 == 0 {
			tr.Remove(fmt.Sprintf("asset-%d", (i+3)%32))
		}
	}
	assert.LessOrEqual(t, len(tr.heap), max(compactFloor, 2*tr.Len()+1))

	// Compaction must not disturb victim ordering.
	v, ok := tr.Victim(prioCritical)
	require.True(t, ok)
	for _, e := range tr.entries {
		assert.LessOrEqual(t, v.Seq, e.Seq)
	}
}

func TestTracker_ManyEntries(t *testing.T) {
	tr := New()
	now := time.Now()

	for i := 0; i < 1000; i++ {
		tr.Record(fmt.Sprintf("asset-%d", i), 1, prioMedium, now, uint64(i+1))
	}
	assert.Equal(t, 1000, tr.Len())

	// Drain in insertion order.
	for i := 0; i < 1000; i++ {
		v, ok := tr.Victim(prioCritical)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("asset-%d", i), v.Key)
		tr.Remove(v.Key)
	}
	_, ok := tr.Victim(prioCritical)
	assert.False(t, ok)
}
