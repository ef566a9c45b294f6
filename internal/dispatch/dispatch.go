// Package dispatch provides the serial dispatcher that stands in for the
// GUI toolkit's event thread. Any handler that touches renderer state must
// hand itself off here instead of running on a provider goroutine.
package dispatch

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Dispatcher runs posted functions one at a time on a single goroutine,
// in FIFO order per posting goroutine. The queue is unbounded so a task
// already running on the dispatcher can always Post without blocking
// the loop that would consume it.
type Dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

func New() *Dispatcher {
	d := &Dispatcher{done: make(chan struct{})}
	d.cond = sync.NewCond(&d.mu)
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		d.mu.Unlock()
		fn()
	}
}

// Post queues fn for execution on the dispatcher goroutine. Never blocks;
// Post after Close drops the task.
func (d *Dispatcher) Post(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Debug().Str("module", "dispatch").Msg("task dropped after close")
		return
	}
	d.queue = append(d.queue, fn)
	d.cond.Signal()
}

// Sync blocks until every task posted before it has run. Never call it
// from the dispatcher goroutine.
func (d *Dispatcher) Sync() {
	ran := make(chan struct{})
	d.Post(func() { close(ran) })
	select {
	case <-ran:
	case <-d.done:
	}
}

// Close drains the queue and stops the loop. Idempotent. Never call it
// from the dispatcher goroutine.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.cond.Signal()
	d.mu.Unlock()
	<-d.done
}
