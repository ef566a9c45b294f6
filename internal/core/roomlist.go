package core

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/Conclave/internal/config"
	"github.com/dkeye/Conclave/internal/protocol"
)

// ListEventKind tells what happened to a room wrapper in the list.
type ListEventKind int

const (
	ListAdded ListEventKind = iota
	ListRemoved
	ListChanged
)

// ListEvent notifies a change in the room list data model.
type ListEvent struct {
	Kind    ListEventKind
	Wrapper *RoomWrapper
}

type ListListener func(ListEvent)

// ProviderListener observes provider wrappers coming and going.
type ProviderListener interface {
	ProviderWrapperAdded(*ProviderWrapper)
	ProviderWrapperRemoved(*ProviderWrapper)
}

// RoomList is the collection of all conference providers and their
// persisted room wrappers. Listener invocation is synchronous on the
// calling goroutine; listeners touching UI state must redispatch
// themselves.
type RoomList struct {
	store *config.Store

	mu        sync.RWMutex
	providers []*ProviderWrapper

	listListeners     protocol.SinkList[ListListener]
	providerListeners protocol.SinkList[ProviderListener]
}

func NewRoomList(store *config.Store) *RoomList {
	return &RoomList{store: store}
}

// AddProvider wraps a newly registered provider and reconstructs its
// persisted room wrappers from the store, before any live room exists.
func (rl *RoomList) AddProvider(provider protocol.Provider) *ProviderWrapper {
	pw := NewProviderWrapper(provider)
	for _, identity := range rl.store.Rooms(provider.ID()) {
		pw.AddRoom(NewRoomWrapper(pw, identity))
	}

	rl.mu.Lock()
	rl.providers = append(rl.providers, pw)
	rl.mu.Unlock()

	log.Info().Str("module", "core.roomlist").Str("provider", string(provider.ID())).
		Int("rooms", pw.CountRooms()).Msg("provider added")
	rl.fireProviderAdded(pw)
	return pw
}

// RemoveProvider drops the provider wrapper on unregistration. Persisted
// room configuration stays for the next registration cycle.
func (rl *RoomList) RemoveProvider(provider protocol.Provider) *ProviderWrapper {
	pw := rl.FindProviderWrapper(provider)
	if pw == nil {
		return nil
	}
	rl.mu.Lock()
	rl.providers = lo.Without(rl.providers, pw)
	rl.mu.Unlock()

	for _, w := range pw.Rooms() {
		w.SetLive(nil)
	}
	log.Info().Str("module", "core.roomlist").Str("provider", string(provider.ID())).Msg("provider removed")
	rl.fireProviderRemoved(pw)
	return pw
}

// FindProviderWrapper resolves the wrapper of a provider handle.
func (rl *RoomList) FindProviderWrapper(provider protocol.Provider) *ProviderWrapper {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	pw, _ := lo.Find(rl.providers, func(pw *ProviderWrapper) bool {
		return pw.Provider().ID() == provider.ID()
	})
	return pw
}

// Providers returns a copy of the provider wrapper list.
func (rl *RoomList) Providers() []*ProviderWrapper {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	out := make([]*ProviderWrapper, len(rl.providers))
	copy(out, rl.providers)
	return out
}

// FindRoomWrapper matches a live room handle to its wrapper by identity.
// A match with a stale or absent live handle gets the fresh handle
// attached, which is how reconnection rebinds wrappers.
func (rl *RoomList) FindRoomWrapper(room protocol.Room) *RoomWrapper {
	pw := rl.FindProviderWrapper(room.Provider())
	if pw == nil {
		return nil
	}

	if sys := pw.SystemRoom(); sys.Live() != nil &&
		sys.Live().Identity().Equal(room.Identity()) {
		return sys
	}

	w := pw.FindRoomFor(room)
	if w == nil {
		return nil
	}
	if w.Live() != room {
		w.SetLive(room)
	}
	return w
}

// AddRoom registers a wrapper under its provider, persists it and fires an
// ADDED event.
func (rl *RoomList) AddRoom(w *RoomWrapper) {
	pw := w.Provider()
	if !pw.ContainsRoom(w) {
		pw.AddRoom(w)
	}
	if w.Persistent() {
		rl.store.SaveRoom(w.Identity())
	}
	rl.fireListChanged(ListEvent{Kind: ListAdded, Wrapper: w})
}

// RemoveRoom drops a wrapper from its provider and from persisted
// configuration, then fires a REMOVED event.
func (rl *RoomList) RemoveRoom(w *RoomWrapper) {
	pw := w.Provider()
	rl.mu.RLock()
	known := lo.Contains(rl.providers, pw)
	rl.mu.RUnlock()
	if !known {
		return
	}
	pw.RemoveRoom(w)
	rl.store.RemoveRoom(pw.ID(), w.ID())
	rl.fireListChanged(ListEvent{Kind: ListRemoved, Wrapper: w})
}

func (rl *RoomList) AddListListener(l ListListener) (remove func()) {
	return rl.listListeners.Add(l)
}

func (rl *RoomList) AddProviderListener(l ProviderListener) {
	rl.providerListeners.Add(l)
}

// FireListChanged notifies listeners of an in-place wrapper change, e.g.
// a room going online or offline.
func (rl *RoomList) FireListChanged(w *RoomWrapper) {
	rl.fireListChanged(ListEvent{Kind: ListChanged, Wrapper: w})
}

func (rl *RoomList) fireListChanged(evt ListEvent) {
	for _, l := range rl.listListeners.Snapshot() {
		l(evt)
	}
}

func (rl *RoomList) fireProviderAdded(pw *ProviderWrapper) {
	for _, l := range rl.providerListeners.Snapshot() {
		l.ProviderWrapperAdded(pw)
	}
}

func (rl *RoomList) fireProviderRemoved(pw *ProviderWrapper) {
	for _, l := range rl.providerListeners.Snapshot() {
		l.ProviderWrapperRemoved(pw)
	}
}
