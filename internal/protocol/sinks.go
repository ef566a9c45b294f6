package protocol

import (
	"sync"

	"github.com/samber/lo"
)

type sinkSlot[T any] struct{ v T }

// SinkList holds registered sinks of one event class. Remove compacts the
// list, so register/remove cycles do not grow it. Safe for concurrent use.
type SinkList[T any] struct {
	mu    sync.Mutex
	slots []*sinkSlot[T]
}

// Add registers v and returns the closure that removes it again.
func (l *SinkList[T]) Add(v T) (remove func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := &sinkSlot[T]{v: v}
	l.slots = append(l.slots, s)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.slots = lo.Without(l.slots, s)
	}
}

// Snapshot returns the current sinks. Callers fire events over the copy so
// a sink may remove itself while being notified.
func (l *SinkList[T]) Snapshot() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.slots))
	for i, s := range l.slots {
		out[i] = s.v
	}
	return out
}
