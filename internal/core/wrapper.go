package core

import (
	"sync"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// RoomWrapper is the persistent identity record of a conference room. It is
// created from persisted configuration, from an invitation or from explicit
// user action, and it outlives the live room object across disconnects.
// Identity never changes; only the live handle is attached and detached.
type RoomWrapper struct {
	identity domain.RoomIdentity
	provider *ProviderWrapper

	mu         sync.RWMutex
	live       protocol.Room
	persistent bool
}

// NewRoomWrapper creates a wrapper with no live room attached yet.
func NewRoomWrapper(provider *ProviderWrapper, identity domain.RoomIdentity) *RoomWrapper {
	if identity.Name == "" {
		identity.Name = domain.RoomName(identity.ID)
	}
	return &RoomWrapper{identity: identity, provider: provider, persistent: true}
}

// WrapRoom creates a wrapper around an already resolved live room.
func WrapRoom(provider *ProviderWrapper, room protocol.Room) *RoomWrapper {
	w := NewRoomWrapper(provider, room.Identity())
	w.live = room
	return w
}

func (w *RoomWrapper) Identity() domain.RoomIdentity { return w.identity }
func (w *RoomWrapper) ID() domain.RoomID             { return w.identity.ID }
func (w *RoomWrapper) Name() domain.RoomName         { return w.identity.Name }
func (w *RoomWrapper) Provider() *ProviderWrapper    { return w.provider }

// Live returns the attached live room handle, nil while offline.
func (w *RoomWrapper) Live() protocol.Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live
}

// SetLive attaches or detaches (nil) the live room handle.
func (w *RoomWrapper) SetLive(room protocol.Room) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.live = room
}

// IsJoined reports whether the live room exists and is currently joined.
func (w *RoomWrapper) IsJoined() bool {
	room := w.Live()
	return room != nil && room.IsJoined()
}

// Persistent reports whether the wrapper is stored in configuration.
// System room wrappers are not.
func (w *RoomWrapper) Persistent() bool { return w.persistent }

// AdHocRoomWrapper is the wrapper for an ad-hoc room. Ad-hoc rooms have no
// persistent server-side existence, so the wrapper is never stored.
type AdHocRoomWrapper struct {
	identity domain.RoomIdentity
	provider *AdHocProviderWrapper

	mu   sync.RWMutex
	live protocol.AdHocRoom
}

func NewAdHocRoomWrapper(provider *AdHocProviderWrapper, room protocol.AdHocRoom) *AdHocRoomWrapper {
	return &AdHocRoomWrapper{identity: room.Identity(), provider: provider, live: room}
}

func (w *AdHocRoomWrapper) Identity() domain.RoomIdentity  { return w.identity }
func (w *AdHocRoomWrapper) ID() domain.RoomID              { return w.identity.ID }
func (w *AdHocRoomWrapper) Name() domain.RoomName          { return w.identity.Name }
func (w *AdHocRoomWrapper) Provider() *AdHocProviderWrapper { return w.provider }

func (w *AdHocRoomWrapper) Live() protocol.AdHocRoom {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live
}

func (w *AdHocRoomWrapper) SetLive(room protocol.AdHocRoom) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.live = room
}
