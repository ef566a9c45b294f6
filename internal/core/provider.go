package core

import (
	"sync"

	"github.com/samber/lo"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// ProviderWrapper groups the room wrappers of one account and owns the
// account's system room. One per registered MUC-capable provider.
type ProviderWrapper struct {
	provider protocol.Provider

	mu         sync.RWMutex
	rooms      []*RoomWrapper
	systemRoom *RoomWrapper
}

func NewProviderWrapper(provider protocol.Provider) *ProviderWrapper {
	pw := &ProviderWrapper{provider: provider}
	pw.systemRoom = &RoomWrapper{
		identity: domain.RoomIdentity{
			Provider: provider.ID(),
			ID:       domain.RoomID("system." + provider.Account().Address),
			Name:     domain.RoomName(provider.Account().Address),
		},
		provider: pw,
	}
	return pw
}

func (pw *ProviderWrapper) Provider() protocol.Provider { return pw.provider }
func (pw *ProviderWrapper) ID() domain.ProviderID       { return pw.provider.ID() }

// SystemRoom returns the wrapper routing server announcements.
func (pw *ProviderWrapper) SystemRoom() *RoomWrapper {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return pw.systemRoom
}

// SetSystemRoom attaches the live system room once the server reports it.
func (pw *ProviderWrapper) SetSystemRoom(room protocol.Room) {
	pw.mu.RLock()
	sys := pw.systemRoom
	pw.mu.RUnlock()
	sys.SetLive(room)
}

// AddRoom appends a wrapper, keeping stored order.
func (pw *ProviderWrapper) AddRoom(w *RoomWrapper) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.rooms = append(pw.rooms, w)
}

func (pw *ProviderWrapper) RemoveRoom(w *RoomWrapper) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.rooms = lo.Without(pw.rooms, w)
}

func (pw *ProviderWrapper) ContainsRoom(w *RoomWrapper) bool {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return lo.Contains(pw.rooms, w)
}

// Rooms returns an ordered copy safe to iterate without the lock.
func (pw *ProviderWrapper) Rooms() []*RoomWrapper {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	out := make([]*RoomWrapper, len(pw.rooms))
	copy(out, pw.rooms)
	return out
}

func (pw *ProviderWrapper) CountRooms() int {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	return len(pw.rooms)
}

// FindRoomByID looks a wrapper up by room id.
func (pw *ProviderWrapper) FindRoomByID(id domain.RoomID) *RoomWrapper {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	w, _ := lo.Find(pw.rooms, func(w *RoomWrapper) bool { return w.ID() == id })
	return w
}

// FindRoomFor matches a live room handle against stored identities. Object
// identity is insufficient: a persisted wrapper predates the live room and
// outlives it after disconnection.
func (pw *ProviderWrapper) FindRoomFor(room protocol.Room) *RoomWrapper {
	return pw.FindRoomByID(room.Identity().ID)
}

// AdHocProviderWrapper groups the ad-hoc room wrappers of one account.
type AdHocProviderWrapper struct {
	provider protocol.Provider

	mu    sync.RWMutex
	rooms []*AdHocRoomWrapper
}

func NewAdHocProviderWrapper(provider protocol.Provider) *AdHocProviderWrapper {
	return &AdHocProviderWrapper{provider: provider}
}

func (pw *AdHocProviderWrapper) Provider() protocol.Provider { return pw.provider }
func (pw *AdHocProviderWrapper) ID() domain.ProviderID       { return pw.provider.ID() }

func (pw *AdHocProviderWrapper) AddRoom(w *AdHocRoomWrapper) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.rooms = append(pw.rooms, w)
}

func (pw *AdHocProviderWrapper) RemoveRoom(w *AdHocRoomWrapper) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.rooms = lo.Without(pw.rooms, w)
}

func (pw *AdHocProviderWrapper) Rooms() []*AdHocRoomWrapper {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	out := make([]*AdHocRoomWrapper, len(pw.rooms))
	copy(out, pw.rooms)
	return out
}

func (pw *AdHocProviderWrapper) FindRoomByID(id domain.RoomID) *AdHocRoomWrapper {
	pw.mu.RLock()
	defer pw.mu.RUnlock()
	w, _ := lo.Find(pw.rooms, func(w *AdHocRoomWrapper) bool { return w.ID() == id })
	return w
}

func (pw *AdHocProviderWrapper) FindRoomFor(room protocol.AdHocRoom) *AdHocRoomWrapper {
	return pw.FindRoomByID(room.Identity().ID)
}
