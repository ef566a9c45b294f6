package dispatch

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostRunsInOrder(t *testing.T) {
	d := New()
	defer d.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		d.Post(func() { got = append(got, i) })
	}
	d.Sync()

	assert.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestSyncWaitsForEarlierTasks(t *testing.T) {
	d := New()
	defer d.Close()

	done := false
	d.Post(func() { done = true })
	d.Sync()
	assert.True(t, done)
}

// A task running on the dispatcher must be able to post any number of
// follow-up tasks without blocking the loop that consumes them.
func TestPostFromDispatcherTaskNeverBlocks(t *testing.T) {
	d := New()
	defer d.Close()

	const n = 1000
	ran := 0
	finished := make(chan struct{})
	d.Post(func() {
		for i := 0; i < n; i++ {
			last := i == n-1
			d.Post(func() {
				ran++
				if last {
					close(finished)
				}
			})
		}
	})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher blocked on post from its own task")
	}
	d.Sync()
	assert.Equal(t, n, ran)
}

func TestPostAfterCloseIsDropped(t *testing.T) {
	d := New()
	d.Close()

	var mu sync.Mutex
	ran := false
	d.Post(func() {
		mu.Lock()
		ran = true
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, ran)
}

func TestCloseIsIdempotent(t *testing.T) {
	d := New()
	d.Close()
	assert.NotPanics(t, func() { d.Close() })
}
