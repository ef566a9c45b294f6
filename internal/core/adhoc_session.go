package core

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/dispatch"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// AdHocSession is the per-open-window view-model of one ad-hoc room.
// Unlike ConferenceSession it has no subject, its contacts carry no role,
// SYSTEM messages do not exist, and closing the window never leaves the
// room.
type AdHocSession struct {
	wrapper  *AdHocRoomWrapper
	renderer SessionRenderer
	disp     *dispatch.Dispatcher
	history  protocol.History

	state      SessionState
	members    *MemberModel
	transports []Transport
	current    Transport
	detach     []func()
	recent     *RecentMessages
}

// NewAdHocSession builds a session for the wrapper. Must be called on the
// dispatcher goroutine.
func NewAdHocSession(
	disp *dispatch.Dispatcher,
	renderer SessionRenderer,
	wrapper *AdHocRoomWrapper,
	history protocol.History,
	cfg SessionConfig,
) *AdHocSession {
	s := &AdHocSession{
		wrapper:  wrapper,
		renderer: renderer,
		disp:     disp,
		history:  history,
		members:  NewMemberModel(),
		recent:   NewRecentMessages(cfg.HistoryWindow, cfg.HistoryLookback),
	}
	if room := wrapper.Live(); room != nil && room.IsJoined() {
		s.load(room)
	}
	return s
}

func (s *AdHocSession) Wrapper() *AdHocRoomWrapper   { return s.wrapper }
func (s *AdHocSession) Renderer() SessionRenderer    { return s.renderer }
func (s *AdHocSession) State() SessionState          { return s.state }
func (s *AdHocSession) CurrentTransport() Transport  { return s.current }
func (s *AdHocSession) Contacts() []*ChatContact     { return s.members.Contacts() }

func (s *AdHocSession) History(count int) []protocol.MessageEvent {
	if s.history == nil {
		return nil
	}
	return s.history.FindLast(s.wrapper.Identity(), count)
}

// LoadRoom binds the session to the live ad-hoc room. Must run on the
// dispatcher.
func (s *AdHocSession) LoadRoom(room protocol.AdHocRoom) {
	if s.state == SessionDisposed {
		return
	}
	s.unlisten()
	s.load(room)
}

func (s *AdHocSession) load(room protocol.AdHocRoom) {
	s.current = NewAdHocTransport(room)
	s.transports = []Transport{s.current}

	s.renderer.RemoveAllChatContacts()
	s.members.Clear()
	for _, member := range room.Members() {
		if contact, added := s.members.Add(NewAdHocChatContact(member)); added {
			s.renderer.AddChatContact(contact)
		}
	}

	s.detach = append(s.detach, room.AddMemberPresenceSink(s.memberPresenceChanged))
	s.state = SessionLoaded
	log.Debug().Str("module", "core.adhoc").Str("room", s.wrapper.Identity().String()).
		Int("members", s.members.Len()).Msg("ad-hoc room loaded")
}

func (s *AdHocSession) memberPresenceChanged(evt protocol.AdHocMemberPresenceEvent) {
	s.disp.Post(func() { s.applyMemberPresence(evt) })
}

func (s *AdHocSession) applyMemberPresence(evt protocol.AdHocMemberPresenceEvent) {
	if s.state != SessionLoaded {
		return
	}
	if !evt.Room.Identity().Equal(s.wrapper.Identity()) {
		return
	}
	roomName := s.wrapper.Name()

	switch evt.Type {
	case protocol.MemberJoined:
		contact, added := s.members.Add(NewAdHocChatContact(evt.Member))
		if !added {
			return
		}
		s.renderer.AddChatContact(contact)
		s.renderer.UpdateChatContactStatus(contact, statusLine(evt.Type, roomName))

	case protocol.MemberLeft, protocol.MemberKicked, protocol.MemberQuit:
		contact := s.members.Find(evt.Member)
		if contact == nil {
			return
		}
		s.renderer.UpdateChatContactStatus(contact, statusLine(evt.Type, roomName))
		s.renderer.RemoveChatContact(contact)
		s.members.Remove(evt.Member)
	}
}

// RenderIncoming renders a received message. SYSTEM events do not exist
// for ad-hoc rooms and are downgraded to conversation. Must run on the
// dispatcher.
func (s *AdHocSession) RenderIncoming(evt protocol.MessageEvent) {
	msg := evt.Message
	if evt.History && s.recent.IsReplay(msg.Content, evt.Timestamp) {
		return
	}
	kind := evt.Kind
	if kind == domain.KindSystem {
		kind = domain.KindConversation
	}
	from := ""
	if evt.From != nil {
		from = evt.From.Name()
	}
	s.renderer.AddMessage(from, evt.Timestamp, kind, msg.Content, msg.ContentType, msg.UID)
	s.recent.Remember(msg.UID, msg.Content, evt.Timestamp)
}

// RenderOutgoing renders a delivered message of the local user.
func (s *AdHocSession) RenderOutgoing(evt protocol.MessageEvent) {
	from := ""
	if room := s.wrapper.Live(); room != nil {
		from = room.Provider().Account().BareName()
	}
	msg := evt.Message
	s.renderer.AddMessage(from, evt.Timestamp, evt.Kind, msg.Content, msg.ContentType, msg.UID)
	s.recent.Remember(msg.UID, msg.Content, evt.Timestamp)
}

// RenderDeliveryFailure shows the undelivered message and an inline error.
func (s *AdHocSession) RenderDeliveryFailure(f protocol.DeliveryFailure, errorMessage string) {
	to := ""
	if f.To != nil {
		to = f.To.Name()
	}
	s.renderer.AddMessage(to, time.Now(), domain.KindConversation,
		f.Message.Content, f.Message.ContentType, f.Message.UID)
	s.renderer.AddErrorMessage(to, errorMessage)
}

// Dispose detaches listeners. The ad-hoc variant never auto-leaves. Must
// run on the dispatcher.
func (s *AdHocSession) Dispose() {
	if s.state == SessionDisposed {
		return
	}
	s.unlisten()
	s.state = SessionDisposed
}

func (s *AdHocSession) unlisten() {
	for _, remove := range s.detach {
		remove()
	}
	s.detach = nil
}
