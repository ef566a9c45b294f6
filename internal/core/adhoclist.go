package core

import (
	"sync"

	"github.com/samber/lo"

	"github.com/dkeye/Conclave/internal/protocol"
)

// AdHocListEvent notifies a change in the ad-hoc room list data model.
type AdHocListEvent struct {
	Kind    ListEventKind
	Wrapper *AdHocRoomWrapper
}

type AdHocListListener func(AdHocListEvent)

// AdHocRoomList holds the ad-hoc providers and their room wrappers.
// Nothing here is persisted: an ad-hoc room stops existing with its
// participants.
type AdHocRoomList struct {
	mu        sync.RWMutex
	providers []*AdHocProviderWrapper

	listeners protocol.SinkList[AdHocListListener]
}

func NewAdHocRoomList() *AdHocRoomList {
	return &AdHocRoomList{}
}

func (rl *AdHocRoomList) AddProvider(provider protocol.Provider) *AdHocProviderWrapper {
	pw := NewAdHocProviderWrapper(provider)
	rl.mu.Lock()
	rl.providers = append(rl.providers, pw)
	rl.mu.Unlock()
	return pw
}

func (rl *AdHocRoomList) RemoveProvider(provider protocol.Provider) *AdHocProviderWrapper {
	pw := rl.FindProviderWrapper(provider)
	if pw == nil {
		return nil
	}
	rl.mu.Lock()
	rl.providers = lo.Without(rl.providers, pw)
	rl.mu.Unlock()
	return pw
}

// Providers returns a copy of the provider wrapper list.
func (rl *AdHocRoomList) Providers() []*AdHocProviderWrapper {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	out := make([]*AdHocProviderWrapper, len(rl.providers))
	copy(out, rl.providers)
	return out
}

func (rl *AdHocRoomList) FindProviderWrapper(provider protocol.Provider) *AdHocProviderWrapper {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	pw, _ := lo.Find(rl.providers, func(pw *AdHocProviderWrapper) bool {
		return pw.Provider().ID() == provider.ID()
	})
	return pw
}

// FindRoomWrapper matches a live ad-hoc room to its wrapper by identity.
func (rl *AdHocRoomList) FindRoomWrapper(room protocol.AdHocRoom) *AdHocRoomWrapper {
	pw := rl.FindProviderWrapper(room.Provider())
	if pw == nil {
		return nil
	}
	return pw.FindRoomFor(room)
}

// AddRoom registers a wrapper and fires an ADDED event.
func (rl *AdHocRoomList) AddRoom(w *AdHocRoomWrapper) {
	w.Provider().AddRoom(w)
	rl.fire(AdHocListEvent{Kind: ListAdded, Wrapper: w})
}

func (rl *AdHocRoomList) RemoveRoom(w *AdHocRoomWrapper) {
	w.Provider().RemoveRoom(w)
	rl.fire(AdHocListEvent{Kind: ListRemoved, Wrapper: w})
}

// FireListChanged notifies an in-place wrapper change.
func (rl *AdHocRoomList) FireListChanged(w *AdHocRoomWrapper) {
	rl.fire(AdHocListEvent{Kind: ListChanged, Wrapper: w})
}

func (rl *AdHocRoomList) AddListListener(l AdHocListListener) (remove func()) {
	return rl.listeners.Add(l)
}

func (rl *AdHocRoomList) fire(evt AdHocListEvent) {
	for _, l := range rl.listeners.Snapshot() {
		l(evt)
	}
}
