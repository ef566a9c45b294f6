package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/core"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// CreateAdHocRoom creates an ad-hoc room with a generated name, invites the
// given member addresses and joins it in the background. Returns nil when
// the provider lacks the capability or creation fails; the user is alerted
// in the latter case.
func (m *Manager) CreateAdHocRoom(p protocol.Provider, members []string, reason string) *core.AdHocRoomWrapper {
	op := p.AdHocMultiUserChat()
	if op == nil {
		return nil
	}

	name := domain.RoomName(fmt.Sprintf("chatroom-%d", time.Now().UnixMilli()))
	room, err := op.CreateRoom(name, members, reason)
	if err != nil || room == nil {
		log.Error().Str("module", "app.manager").Str("provider", string(p.ID())).
			Err(err).Msg("ad-hoc room creation failed")
		m.ui.Alert(SeverityError, titleError, msgCreateRoomFailed(string(p.ID())))
		return nil
	}

	pw := m.adhoc.FindProviderWrapper(p)
	if pw == nil {
		pw = m.adhoc.AddProvider(p)
	}
	w := core.NewAdHocRoomWrapper(pw, room)
	m.adhoc.AddRoom(w)

	go m.runAdHocJoin(w, room)
	return w
}

// LeaveAdHocRoom leaves the room; the window closes when the protocol
// confirms. Ad-hoc rooms have no persisted disposition.
func (m *Manager) LeaveAdHocRoom(w *core.AdHocRoomWrapper) {
	room := w.Live()
	if room == nil {
		m.ui.Alert(SeverityWarning, titleWarning, msgNotConnected(w.Name()))
		return
	}
	room.Leave()
}

// OpenAdHocChat opens (or returns) the chat window of an ad-hoc wrapper.
// Must run on the dispatcher.
func (m *Manager) OpenAdHocChat(w *core.AdHocRoomWrapper) *core.AdHocSession {
	return m.openAdHocChat(w)
}

// CloseAdHocChat disposes the wrapper's session and closes its window. Must
// run on the dispatcher.
func (m *Manager) CloseAdHocChat(w *core.AdHocRoomWrapper) {
	m.closeAdHocChat(w)
}

func (m *Manager) adhocSessionFor(id domain.RoomID) *core.AdHocSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adhocSessions[id]
}

func (m *Manager) openAdHocChat(w *core.AdHocRoomWrapper) *core.AdHocSession {
	if s := m.adhocSessionFor(w.ID()); s != nil {
		return s
	}
	s := core.NewAdHocSession(m.disp, m.ui.CreateAdHocRenderer(w), w, m.history, m.cfg)
	m.mu.Lock()
	m.adhocSessions[w.ID()] = s
	m.mu.Unlock()
	return s
}

func (m *Manager) closeAdHocChat(w *core.AdHocRoomWrapper) {
	m.mu.Lock()
	s := m.adhocSessions[w.ID()]
	delete(m.adhocSessions, w.ID())
	m.mu.Unlock()
	if s == nil {
		return
	}
	s.Dispose()
	m.ui.CloseAdHocWindow(w)
}

func (m *Manager) adHocLocalPresenceChanged(evt protocol.AdHocLocalPresenceEvent) {
	m.disp.Post(func() { m.applyAdHocLocalPresence(evt) })
}

func (m *Manager) applyAdHocLocalPresence(evt protocol.AdHocLocalPresenceEvent) {
	room := evt.Room
	switch evt.Type {
	case protocol.LocalJoined:
		w := m.adhoc.FindRoomWrapper(room)
		if w == nil {
			pw := m.adhoc.FindProviderWrapper(room.Provider())
			if pw == nil {
				return
			}
			w = core.NewAdHocRoomWrapper(pw, room)
			m.adhoc.AddRoom(w)
		}
		m.adhoc.FireListChanged(w)
		if s := m.adhocSessionFor(w.ID()); s != nil {
			s.LoadRoom(room)
		} else {
			m.openAdHocChat(w)
		}

	case protocol.LocalJoinFailed:
		m.ui.Alert(SeverityError, titleError,
			joinFailureMessage(JoinUnknown, room.Identity().Name, evt.Reason))

	case protocol.LocalLeft, protocol.LocalKicked, protocol.LocalDropped:
		w := m.adhoc.FindRoomWrapper(room)
		if w == nil {
			return
		}
		m.closeAdHocChat(w)
		m.adhoc.RemoveRoom(w)
	}
}

func (m *Manager) adHocInvitationReceived(inv protocol.AdHocInvitation) {
	m.disp.Post(func() {
		op := inv.Target.Provider().AdHocMultiUserChat()
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
				if op == nil {
					return
				}
				if err := op.RejectInvitation(inv, reason); err != nil {
					log.Warn().Str("module", "app.manager").Err(err).Msg("ad-hoc invitation rejection failed")
				}
			},
		})
	})
}

// adHocSink redispatches ad-hoc message events onto the dispatcher. Ad-hoc
// rooms have no open policy; incoming traffic always surfaces.
type adHocSink struct{ m *Manager }

func (s adHocSink) MessageReceived(evt protocol.MessageEvent) {
	s.m.disp.Post(func() { s.m.adHocMessageReceived(evt) })
}

func (s adHocSink) MessageDelivered(evt protocol.MessageEvent) {
	s.m.disp.Post(func() { s.m.adHocMessageDelivered(evt) })
}

func (s adHocSink) DeliveryFailed(f protocol.DeliveryFailure) {
	s.m.disp.Post(func() { s.m.adHocDeliveryFailed(f) })
}

func (m *Manager) adHocMessageReceived(evt protocol.MessageEvent) {
	room := evt.AdHocRoom
	w := m.adhoc.FindRoomWrapper(room)
	if w == nil {
		pw := m.adhoc.FindProviderWrapper(room.Provider())
		if pw == nil {
			return
		}
		w = core.NewAdHocRoomWrapper(pw, room)
		m.adhoc.AddRoom(w)
	}
	s := m.adhocSessionFor(w.ID())
	if s == nil {
		s = m.openAdHocChat(w)
	}
	s.RenderIncoming(evt)
}

func (m *Manager) adHocMessageDelivered(evt protocol.MessageEvent) {
	w := m.adhoc.FindRoomWrapper(evt.AdHocRoom)
	if w == nil {
		return
	}
	if s := m.adhocSessionFor(w.ID()); s != nil {
		s.RenderOutgoing(evt)
	}
}

func (m *Manager) adHocDeliveryFailed(f protocol.DeliveryFailure) {
	w := m.adhoc.FindRoomWrapper(f.AdHocRoom)
	if w == nil {
		return
	}
	s := m.adhocSessionFor(w.ID())
	if s == nil {
		s = m.openAdHocChat(w)
	}
	to := ""
	if f.To != nil {
		to = f.To.Name()
	}
	s.RenderDeliveryFailure(f, deliveryFailureMessage(f.Code, to, f.Reason))
}
