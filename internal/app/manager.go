// Package app holds the conference manager, the application-level service
// that ties the protocol providers, the room lists, the persisted store and
// the chat sessions together.
package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/config"
	"github.com/dkeye/Conclave/internal/core"
	"github.com/dkeye/Conclave/internal/dispatch"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// Manager is the conference chat manager. Protocol events of every
// registered provider funnel through it; it decides which wrappers exist,
// which windows open and what the user gets told about failures.
//
// Public operations and the UI callbacks run on the dispatcher goroutine.
// Blocking protocol calls (resolve, join) run on background goroutines and
// post their completions back.
type Manager struct {
	disp     *dispatch.Dispatcher
	registry protocol.Registry
	store    *config.Store
	history  protocol.History
	ui       UI
	cfg      core.SessionConfig

	rooms *core.RoomList
	adhoc *core.AdHocRoomList

	mu            sync.Mutex
	sessions      map[domain.RoomID]*core.ConferenceSession
	adhocSessions map[domain.RoomID]*core.AdHocSession
	detach        map[domain.ProviderID][]func()

	removeRegistrySink func()
}

func NewManager(
	disp *dispatch.Dispatcher,
	registry protocol.Registry,
	store *config.Store,
	history protocol.History,
	ui UI,
	cfg core.SessionConfig,
) *Manager {
	return &Manager{
		disp:          disp,
		registry:      registry,
		store:         store,
		history:       history,
		ui:            ui,
		cfg:           cfg,
		rooms:         core.NewRoomList(store),
		adhoc:         core.NewAdHocRoomList(),
		sessions:      make(map[domain.RoomID]*core.ConferenceSession),
		adhocSessions: make(map[domain.RoomID]*core.AdHocSession),
		detach:        make(map[domain.ProviderID][]func()),
	}
}

func (m *Manager) Rooms() *core.RoomList       { return m.rooms }
func (m *Manager) AdHocRooms() *core.AdHocRoomList { return m.adhoc }

// Start attaches the manager to the provider registry and picks up every
// provider that registered before it.
func (m *Manager) Start() {
	m.removeRegistrySink = m.registry.AddProviderSink(m.providerChanged)
	for _, p := range m.registry.Providers() {
		if p.IsRegistered() {
			m.providerRegistered(p)
		}
	}
	log.Info().Str("module", "app.manager").Msg("conference manager started")
}

// Stop detaches all protocol sinks and disposes every open session.
func (m *Manager) Stop() {
	if m.removeRegistrySink != nil {
		m.removeRegistrySink()
		m.removeRegistrySink = nil
	}
	m.mu.Lock()
	for _, removers := range m.detach {
		for _, remove := range removers {
			remove()
		}
	}
	m.detach = make(map[domain.ProviderID][]func())
	m.mu.Unlock()

	m.disp.Post(func() {
		for _, pw := range m.rooms.Providers() {
			for _, w := range pw.Rooms() {
				m.closeChat(w)
			}
		}
		for _, pw := range m.adhoc.Providers() {
			for _, w := range pw.Rooms() {
				m.closeAdHocChat(w)
			}
		}
	})
	m.disp.Sync()
	log.Info().Str("module", "app.manager").Msg("conference manager stopped")
}

func (m *Manager) providerChanged(evt protocol.ProviderEvent) {
	switch evt.Type {
	case protocol.ProviderRegistered:
		m.providerRegistered(evt.Provider)
	case protocol.ProviderUnregistering:
		m.providerUnregistering(evt.Provider)
	}
}

func (m *Manager) providerRegistered(p protocol.Provider) {
	var removers []func()

	if muc := p.MultiUserChat(); muc != nil {
		pw := m.rooms.AddProvider(p)
		removers = append(removers,
			muc.AddLocalPresenceSink(m.localPresenceChanged),
			muc.AddInvitationSink(m.invitationReceived),
			muc.AddMessageSink(conferenceSink{m}),
		)
		go m.synchronizeProvider(pw, muc)
	}
	if op := p.AdHocMultiUserChat(); op != nil {
		m.adhoc.AddProvider(p)
		removers = append(removers,
			op.AddLocalPresenceSink(m.adHocLocalPresenceChanged),
			op.AddInvitationSink(m.adHocInvitationReceived),
			op.AddMessageSink(adHocSink{m}),
		)
	}
	if len(removers) == 0 {
		return
	}

	m.mu.Lock()
	m.detach[p.ID()] = removers
	m.mu.Unlock()
}

// providerUnregistering detaches the sinks and the live room handles.
// Persisted room configuration survives for the next registration cycle.
func (m *Manager) providerUnregistering(p protocol.Provider) {
	m.mu.Lock()
	removers := m.detach[p.ID()]
	delete(m.detach, p.ID())
	m.mu.Unlock()
	for _, remove := range removers {
		remove()
	}

	pw := m.rooms.RemoveProvider(p)
	apw := m.adhoc.RemoveProvider(p)
	m.disp.Post(func() {
		if pw != nil {
			for _, w := range pw.Rooms() {
				m.closeChat(w)
			}
		}
		if apw != nil {
			for _, w := range apw.Rooms() {
				m.closeAdHocChat(w)
			}
		}
	})
}

// synchronizeProvider resolves every persisted room of a freshly registered
// provider against the server, one goroutine per room, and auto-joins the
// ones the user left online. Resolution failures are logged only; the next
// registration cycle retries.
func (m *Manager) synchronizeProvider(pw *core.ProviderWrapper, muc protocol.MultiUserChat) {
	for _, w := range pw.Rooms() {
		if w.Live() != nil {
			continue
		}
		go func(w *core.RoomWrapper) {
			room, err := muc.FindRoom(w.Name())
			if err != nil || room == nil {
				log.Warn().
					Str("module", "app.manager").
					Str("provider", string(pw.ID())).
					Str("room", string(w.ID())).
					Err(err).
					Msg("room resolution failed")
				return
			}
			w.SetLive(room)
			m.rooms.FireListChanged(w)

			if m.store.Disposition(pw.ID(), w.ID()) != config.StatusOffline {
				m.runJoin(w, room, m.store.Nickname(pw.ID(), w.ID()), nil)
			}
		}(w)
	}
}

// JoinRoom joins the wrapper's live room in the background. A non-empty
// nickname is remembered for future joins; an empty one falls back to the
// saved nickname, then to the protocol default. A wrapper with no live
// handle cannot join and the user gets a warning instead.
func (m *Manager) JoinRoom(w *core.RoomWrapper, nickname string, password []byte) {
	room := w.Live()
	if room == nil {
		m.ui.Alert(SeverityWarning, titleWarning, msgNotConnected(w.Name()))
		return
	}
	pw := w.Provider()
	if nickname != "" {
		m.store.SetNickname(pw.ID(), w.ID(), nickname)
	} else {
		nickname = m.store.Nickname(pw.ID(), w.ID())
	}
	go m.runJoin(w, room, nickname, password)
}

// LeaveRoom leaves the room and flips the persisted disposition to offline
// so the next synchronization does not rejoin it. The chat window closes
// when the protocol confirms with a LEFT event.
func (m *Manager) LeaveRoom(w *core.RoomWrapper) {
	room := w.Live()
	if room == nil {
		m.ui.Alert(SeverityWarning, titleWarning, msgNotConnected(w.Name()))
		return
	}
	room.Leave()
	if w.Persistent() {
		m.store.SetDisposition(w.Provider().ID(), w.ID(), config.StatusOffline)
	}
}

// RemoveRoom permanently forgets a room: leaves it first if joined, closes
// its window, then drops it from the list and the store. Must run on the
// dispatcher.
func (m *Manager) RemoveRoom(w *core.RoomWrapper) {
	if room := w.Live(); room != nil && room.IsJoined() {
		room.Leave()
	}
	m.closeChat(w)
	m.rooms.RemoveRoom(w)
}

// CreateRoom creates a persistent conference room on the provider and
// registers its wrapper. Joining is a separate, explicit step.
func (m *Manager) CreateRoom(p protocol.Provider, name domain.RoomName) *core.RoomWrapper {
	muc := p.MultiUserChat()
	if muc == nil {
		return nil
	}
	room, err := muc.CreateRoom(name)
	if err != nil || room == nil {
		log.Error().Str("module", "app.manager").Str("room", string(name)).
			Err(err).Msg("room creation failed")
		m.ui.Alert(SeverityError, titleError, msgCreateRoomFailed(string(p.ID())))
		return nil
	}
	// Some providers auto-join on create; leave so the join flows through
	// the normal path with the user's nickname.
	if room.IsJoined() {
		room.Leave()
	}

	pw := m.rooms.FindProviderWrapper(p)
	if pw == nil {
		return nil
	}
	w := core.WrapRoom(pw, room)
	m.rooms.AddRoom(w)
	return w
}

// OpenChat opens (or returns) the chat window of a wrapper. Must run on the
// dispatcher.
func (m *Manager) OpenChat(w *core.RoomWrapper) *core.ConferenceSession {
	return m.openChat(w)
}

// CloseChat disposes the wrapper's session and closes its window. Must run
// on the dispatcher.
func (m *Manager) CloseChat(w *core.RoomWrapper) {
	m.closeChat(w)
}

func (m *Manager) sessionFor(id domain.RoomID) *core.ConferenceSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *Manager) openChat(w *core.RoomWrapper) *core.ConferenceSession {
	if s := m.sessionFor(w.ID()); s != nil {
		return s
	}
	s := core.NewConferenceSession(m.disp, m.ui.CreateRenderer(w), w, m.history, m.cfg)
	m.mu.Lock()
	m.sessions[w.ID()] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) closeChat(w *core.RoomWrapper) {
	m.mu.Lock()
	s := m.sessions[w.ID()]
	delete(m.sessions, w.ID())
	m.mu.Unlock()
	if s == nil {
		return
	}
	s.Dispose()
	m.ui.CloseWindow(w)
}

func (m *Manager) localPresenceChanged(evt protocol.LocalPresenceEvent) {
	m.disp.Post(func() { m.applyLocalPresence(evt) })
}

func (m *Manager) applyLocalPresence(evt protocol.LocalPresenceEvent) {
	room := evt.Room
	switch evt.Type {
	case protocol.LocalJoined:
		if room.IsSystem() {
			if pw := m.rooms.FindProviderWrapper(room.Provider()); pw != nil {
				pw.SetSystemRoom(room)
			}
			return
		}
		w := m.rooms.FindRoomWrapper(room)
		if w == nil {
			// Joined without a wrapper, e.g. through an accepted
			// invitation. Track it from here on.
			pw := m.rooms.FindProviderWrapper(room.Provider())
			if pw == nil {
				return
			}
			w = core.WrapRoom(pw, room)
			m.rooms.AddRoom(w)
		}
		m.rooms.FireListChanged(w)
		if s := m.sessionFor(w.ID()); s != nil {
			s.LoadRoom(room)
		} else {
			m.openChat(w)
		}

	case protocol.LocalJoinFailed:
		m.ui.Alert(SeverityError, titleError,
			joinFailureMessage(JoinUnknown, room.Identity().Name, evt.Reason))

	case protocol.LocalLeft, protocol.LocalKicked, protocol.LocalDropped:
		w := m.rooms.FindRoomWrapper(room)
		if w == nil {
			return
		}
		m.closeChat(w)
		m.rooms.FireListChanged(w)
		if evt.AlternateAddress != "" {
			log.Info().Str("module", "app.manager").Str("room", string(w.ID())).
				Str("alternate", evt.AlternateAddress).Msg("conference moved")
		}
	}
}

func (m *Manager) invitationReceived(inv protocol.Invitation) {
	m.disp.Post(func() {
		muc := inv.Target.Provider().MultiUserChat()
		m.ui.PresentInvitation(InvitationPrompt{
			Inviter:  inv.Inviter,
			RoomName: string(inv.Target.Identity().Name),
			Reason:   inv.Reason,
			Accept: func() {
				if err := inv.Target.Join(); err != nil {
					m.ui.Alert(SeverityError, titleError,
						msgInvitationJoinFailed(inv.Target.Identity().Name)+" Error was: "+err.Error())
				}
			},
			Reject: func(reason string) {
				if muc == nil {
					return
				}
				if err := muc.RejectInvitation(inv, reason); err != nil {
					log.Warn().Str("module", "app.manager").Err(err).Msg("invitation rejection failed")
				}
			},
		})
	})
}

// conferenceSink redispatches conference message events onto the
// dispatcher.
type conferenceSink struct{ m *Manager }

func (s conferenceSink) MessageReceived(evt protocol.MessageEvent) {
	s.m.disp.Post(func() { s.m.conferenceMessageReceived(evt) })
}

func (s conferenceSink) MessageDelivered(evt protocol.MessageEvent) {
	s.m.disp.Post(func() { s.m.conferenceMessageDelivered(evt) })
}

func (s conferenceSink) DeliveryFailed(f protocol.DeliveryFailure) {
	s.m.disp.Post(func() { s.m.conferenceDeliveryFailed(f) })
}

// conferenceMessageReceived routes an incoming message to its session,
// opening a window per the room's auto-open policy. Messages for rooms
// whose policy keeps the window shut are dropped here; the history service
// already has them.
func (m *Manager) conferenceMessageReceived(evt protocol.MessageEvent) {
	room := evt.Room
	pw := m.rooms.FindProviderWrapper(room.Provider())
	if pw == nil {
		return
	}

	var w *core.RoomWrapper
	if room.IsSystem() {
		w = pw.SystemRoom()
		if w.Live() == nil {
			w.SetLive(room)
		}
	} else {
		w = m.rooms.FindRoomWrapper(room)
		if w == nil {
			w = core.WrapRoom(pw, room)
			m.rooms.AddRoom(w)
		}
	}

	s := m.sessionFor(w.ID())
	if s == nil {
		// System announcements always surface.
		if !room.IsSystem() &&
			!m.store.OpenPolicy(pw.ID(), w.ID()).ShouldOpen(evt.History, evt.Important) {
			return
		}
		s = m.openChat(w)
	}
	s.RenderIncoming(evt)
}

func (m *Manager) conferenceMessageDelivered(evt protocol.MessageEvent) {
	w := m.rooms.FindRoomWrapper(evt.Room)
	if w == nil {
		return
	}
	if s := m.sessionFor(w.ID()); s != nil {
		s.RenderOutgoing(evt)
	}
}

func (m *Manager) conferenceDeliveryFailed(f protocol.DeliveryFailure) {
	w := m.rooms.FindRoomWrapper(f.Room)
	if w == nil {
		return
	}
	s := m.sessionFor(w.ID())
	if s == nil {
		s = m.openChat(w)
	}
	to := ""
	if f.To != nil {
		to = f.To.Name()
	}
	s.RenderDeliveryFailure(f, deliveryFailureMessage(f.Code, to, f.Reason))
}
