package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := New(4)
	defer p.Close()

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			ran.Add(1)
			wg.Done()
		}))
	}
	wg.Wait()
	assert.Equal(t, int64(100), ran.Load())
}

func TestPool_FIFOWithSingleWorker(t *testing.T) {
	p := New(1)
	defer p.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		}))
	}
	wg.Wait()

	for i, got := range order {
		assert.Equal(t, i, got, "single worker must dequeue FIFO")
	}
}

func TestPool_PendingCountsQueuedAndRunning(t *testing.T) {
	p := New(1)
	defer p.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, p.Submit(func() {}))

	// One running, one queued.
	assert.Equal(t, 2, p.Pending())

	close(release)
	for p.Pending() > 0 {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, 0, p.Pending())
}

func TestPool_CloseDrainsQueuedWork(t *testing.T) {
	p := New(2)

	var ran atomic.Int64
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Submit(func() {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}))
	}

	p.Close()

	assert.Equal(t, int64(50), ran.Load(), "Close must drain already-queued tasks")
	assert.Equal(t, 0, p.Pending())
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := New(2)
	p.Close()

	err := p.Submit(func() {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPool_CloseIdempotent(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close()
}

func TestPool_DefaultSize(t *testing.T) {
	p := New(0)
	defer p.Close()

	// The default sizing is opaque from outside; just prove the pool works.
	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never ran")
	}
}
