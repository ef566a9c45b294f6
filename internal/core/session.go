package core

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Conclave/internal/dispatch"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// SessionState is the lifecycle state of a chat session.
type SessionState int

const (
	// SessionUnloaded means no live room is attached; the member list may
	// be stale or empty.
	SessionUnloaded SessionState = iota
	// SessionLoaded means a live room is attached, the member list is
	// populated and listeners are registered.
	SessionLoaded
	// SessionDisposed means listeners are detached and the session is
	// dead.
	SessionDisposed
)

// SessionConfig tunes session behavior from application configuration.
type SessionConfig struct {
	HistoryWindow   int
	HistoryLookback time.Duration
	// LeaveOnClose makes Dispose leave the conference room. Ad-hoc
	// sessions never auto-leave.
	LeaveOnClose bool
}

// ConferenceSession is the per-open-window view-model of one conference
// room. All state is confined to the dispatcher goroutine; protocol events
// re-post themselves there.
type ConferenceSession struct {
	wrapper  *RoomWrapper
	renderer SessionRenderer
	disp     *dispatch.Dispatcher
	cfg      SessionConfig
	history  protocol.History

	state      SessionState
	members    *MemberModel
	transports []Transport
	current    Transport
	detach     []func()
	recent     *RecentMessages
}

// NewConferenceSession builds a session for the wrapper. Must be called on
// the dispatcher goroutine. When the wrapper already has a joined live
// room the session loads it immediately.
func NewConferenceSession(
	disp *dispatch.Dispatcher,
	renderer SessionRenderer,
	wrapper *RoomWrapper,
	history protocol.History,
	cfg SessionConfig,
) *ConferenceSession {
	s := &ConferenceSession{
		wrapper:  wrapper,
		renderer: renderer,
		disp:     disp,
		cfg:      cfg,
		history:  history,
		members:  NewMemberModel(),
		recent:   NewRecentMessages(cfg.HistoryWindow, cfg.HistoryLookback),
	}
	if room := wrapper.Live(); room != nil && room.IsJoined() {
		s.load(room)
	}
	return s
}

func (s *ConferenceSession) Wrapper() *RoomWrapper      { return s.wrapper }
func (s *ConferenceSession) Renderer() SessionRenderer  { return s.renderer }
func (s *ConferenceSession) State() SessionState        { return s.state }
func (s *ConferenceSession) CurrentTransport() Transport { return s.current }
func (s *ConferenceSession) Transports() []Transport    { return s.transports }

// Contacts returns the member list in sort order.
func (s *ConferenceSession) Contacts() []*ChatContact { return s.members.Contacts() }

// Subject returns the room subject, empty while offline.
func (s *ConferenceSession) Subject() string {
	if room := s.wrapper.Live(); room != nil {
		return room.Subject()
	}
	return ""
}

// History returns the last count transcript entries, nil when the history
// service is disabled by configuration.
func (s *ConferenceSession) History(count int) []protocol.MessageEvent {
	if s.history == nil {
		return nil
	}
	return s.history.FindLast(s.wrapper.Identity(), count)
}

// LoadRoom binds the session to a freshly resolved live room: replaces the
// transport, replays the member snapshot and attaches listeners. Called
// either at construction or when the local user joins a room whose window
// was already open. Must run on the dispatcher.
func (s *ConferenceSession) LoadRoom(room protocol.Room) {
	if s.state == SessionDisposed {
		return
	}
	s.unlisten()
	s.load(room)
}

func (s *ConferenceSession) load(room protocol.Room) {
	s.current = NewConferenceTransport(room)
	s.transports = []Transport{s.current}

	s.renderer.RemoveAllChatContacts()
	s.members.Clear()
	for _, member := range room.Members() {
		if contact, added := s.members.Add(NewChatContact(member)); added {
			s.renderer.AddChatContact(contact)
		}
	}

	s.detach = append(s.detach,
		room.AddMemberPresenceSink(s.memberPresenceChanged),
		room.AddPropertySink(s.propertyChanged),
		room.AddMemberPropertySink(s.memberPropertyChanged),
	)

	s.renderer.SetChatSubject(room.Subject())
	s.state = SessionLoaded
	log.Debug().Str("module", "core.session").Str("room", s.wrapper.Identity().String()).
		Int("members", s.members.Len()).Msg("chat room loaded")
}

// memberPresenceChanged applies a membership event in delivery order. It
// re-posts itself onto the dispatcher when arriving on a provider
// goroutine.
func (s *ConferenceSession) memberPresenceChanged(evt protocol.MemberPresenceEvent) {
	s.disp.Post(func() { s.applyMemberPresence(evt) })
}

func (s *ConferenceSession) applyMemberPresence(evt protocol.MemberPresenceEvent) {
	if s.state != SessionLoaded {
		return
	}
	if !evt.Room.Identity().Equal(s.wrapper.Identity()) {
		return
	}
	roomName := s.wrapper.Name()

	switch evt.Type {
	case protocol.MemberJoined:
		contact, added := s.members.Add(NewChatContact(evt.Member))
		if !added {
			// The member list may be replayed after joining; the member
			// was already there.
			return
		}
		s.renderer.AddChatContact(contact)
		if !evt.FromUserList {
			s.renderer.UpdateChatContactStatus(contact, statusLine(evt.Type, roomName))
		}

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

func (s *ConferenceSession) propertyChanged(evt protocol.PropertyEvent) {
	s.disp.Post(func() {
		if s.state != SessionLoaded || evt.Name != protocol.PropSubject {
			return
		}
		s.renderer.SetChatSubject(evt.New)
	})
}

func (s *ConferenceSession) memberPropertyChanged(evt protocol.MemberPropertyEvent) {
	s.disp.Post(func() {
		if s.state != SessionLoaded || evt.Name != protocol.PropNickname {
			return
		}
		if contact := s.members.Rename(evt.Member, evt.NewName); contact != nil {
			s.renderer.UpdateChatContactStatus(contact,
				fmt.Sprintf("is now known as %s", evt.NewName))
		}
	})
}

// RenderIncoming renders a received message, suppressing history replays
// already shown. Must run on the dispatcher.
func (s *ConferenceSession) RenderIncoming(evt protocol.MessageEvent) {
	msg := evt.Message
	if evt.History && s.recent.IsReplay(msg.Content, evt.Timestamp) {
		log.Debug().Str("module", "core.session").Str("uid", msg.UID).Msg("history replay suppressed")
		return
	}
	from := ""
	if evt.From != nil {
		from = evt.From.Name()
	}
	s.renderer.AddMessage(from, evt.Timestamp, evt.Kind, msg.Content, msg.ContentType, msg.UID)
	s.recent.Remember(msg.UID, msg.Content, evt.Timestamp)
}

// RenderOutgoing renders a delivered message of the local user.
func (s *ConferenceSession) RenderOutgoing(evt protocol.MessageEvent) {
	from := ""
	if room := s.wrapper.Live(); room != nil {
		from = room.UserNickname()
	}
	msg := evt.Message
	s.renderer.AddMessage(from, evt.Timestamp, evt.Kind, msg.Content, msg.ContentType, msg.UID)
	s.recent.Remember(msg.UID, msg.Content, evt.Timestamp)
}

// RenderDeliveryFailure shows the undelivered message followed by an
// inline error line. Delivery failures are conversational, never popups.
func (s *ConferenceSession) RenderDeliveryFailure(f protocol.DeliveryFailure, errorMessage string) {
	to := ""
	if f.To != nil {
		to = f.To.Name()
	}
	s.renderer.AddMessage(to, time.Now(), domain.KindConversation,
		f.Message.Content, f.Message.ContentType, f.Message.UID)
	s.renderer.AddErrorMessage(to, errorMessage)
}

// Dispose detaches all listeners and leaves the room when configured to.
// A failed join leaves the session Unloaded, so there may be nothing to
// leave. Must run on the dispatcher.
func (s *ConferenceSession) Dispose() {
	if s.state == SessionDisposed {
		return
	}
	s.unlisten()
	if s.cfg.LeaveOnClose {
		if room := s.wrapper.Live(); room != nil && room.IsJoined() {
			room.Leave()
		}
	}
	s.state = SessionDisposed
}

func (s *ConferenceSession) unlisten() {
	for _, remove := range s.detach {
		remove()
	}
	s.detach = nil
}

// statusLine selects the status message for a membership event subtype.
func statusLine(t protocol.MemberPresenceType, room domain.RoomName) string {
	switch t {
	case protocol.MemberJoined:
		return fmt.Sprintf("has joined %s", room)
	case protocol.MemberKicked:
		return fmt.Sprintf("was kicked from %s", room)
	case protocol.MemberQuit:
		return fmt.Sprintf("has quit %s", room)
	default:
		return fmt.Sprintf("has left %s", room)
	}
}
