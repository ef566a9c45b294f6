package mockproto

import (
	"sync"
	"time"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// History implements protocol.History with an in-memory transcript per
// room identity.
type History struct {
	mu      sync.Mutex
	entries map[string][]protocol.MessageEvent
}

func NewHistory() *History {
	return &History{entries: make(map[string][]protocol.MessageEvent)}
}

// Record appends an event to the room transcript.
func (h *History) Record(room domain.RoomIdentity, evt protocol.MessageEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := room.String()
	h.entries[key] = append(h.entries[key], evt)
}

func (h *History) FindLast(room domain.RoomIdentity, count int) []protocol.MessageEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.entries[room.String()]
	if count <= 0 || count > len(all) {
		count = len(all)
	}
	out := make([]protocol.MessageEvent, count)
	copy(out, all[len(all)-count:])
	return out
}

func (h *History) FindBefore(room domain.RoomIdentity, date time.Time, count int) []protocol.MessageEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var before []protocol.MessageEvent
	for _, evt := range h.entries[room.String()] {
		if evt.Timestamp.Before(date) {
			before = append(before, evt)
		}
	}
	if count <= 0 || count > len(before) {
		count = len(before)
	}
	out := make([]protocol.MessageEvent, count)
	copy(out, before[len(before)-count:])
	return out
}
