package mockproto

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// Room implements protocol.Room. Server-side behavior is scripted: tests
// and the demo binary drive membership, subject changes and traffic through
// the Simulate methods.
type Room struct {
	muc      *MultiUserChat
	identity domain.RoomIdentity
	system   bool

	mu       sync.Mutex
	joined   bool
	nickname string
	subject  string
	members  []protocol.Member
	joinErr  error
	sent     []SentMessage

	memberSinks     protocol.SinkList[protocol.MemberPresenceSink]
	propSinks       protocol.SinkList[protocol.PropertySink]
	memberPropSinks protocol.SinkList[protocol.MemberPropertySink]
}

// SentMessage records a message the local user sent through the room.
type SentMessage struct {
	Message domain.Message
	Kind    domain.MessageKind
}

func newRoom(muc *MultiUserChat, identity domain.RoomIdentity, system bool) *Room {
	return &Room{muc: muc, identity: identity, system: system}
}

func (r *Room) Identity() domain.RoomIdentity { return r.identity }
func (r *Room) Provider() protocol.Provider   { return r.muc.p }
func (r *Room) IsSystem() bool                { return r.system }

func (r *Room) Join() error { return r.JoinAs("", nil) }

// JoinAs joins with the given nickname. A scripted join error is returned
// without any presence event; success fires LocalJoined on the calling
// goroutine.
func (r *Room) JoinAs(nickname string, _ []byte) error {
	r.mu.Lock()
	if err := r.joinErr; err != nil {
		r.mu.Unlock()
		return err
	}
	r.joined = true
	if nickname != "" {
		r.nickname = nickname
	} else if r.nickname == "" {
		r.nickname = r.muc.p.Account().BareName()
	}
	r.mu.Unlock()

	r.muc.fireLocalPresence(protocol.LocalPresenceEvent{Room: r, Type: protocol.LocalJoined})
	return nil
}

func (r *Room) Leave() {
	r.mu.Lock()
	if !r.joined {
		r.mu.Unlock()
		return
	}
	r.joined = false
	r.mu.Unlock()

	r.muc.fireLocalPresence(protocol.LocalPresenceEvent{Room: r, Type: protocol.LocalLeft})
}

func (r *Room) IsJoined() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joined
}

func (r *Room) Subject() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subject
}

func (r *Room) SetSubject(subject string) error {
	r.mu.Lock()
	old := r.subject
	r.subject = subject
	r.mu.Unlock()

	r.firePropertyChange(protocol.PropertyEvent{
		Room: r, Name: protocol.PropSubject, Old: old, New: subject,
	})
	return nil
}

func (r *Room) UserNickname() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nickname
}

func (r *Room) Members() []protocol.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Member, len(r.members))
	copy(out, r.members)
	return out
}

func (r *Room) Invite(address, reason string) error {
	return nil
}

func (r *Room) Send(msg domain.Message, kind domain.MessageKind) error {
	r.mu.Lock()
	r.sent = append(r.sent, SentMessage{Message: msg, Kind: kind})
	nickname := r.nickname
	r.mu.Unlock()

	evt := protocol.MessageEvent{
		Room:      r,
		From:      NewMember(r.muc.p.Account().Address, nickname, domain.RoleMember),
		Message:   msg,
		Kind:      kind,
		Timestamp: msg.Timestamp,
	}
	for _, s := range r.muc.messageSinks() {
		s.MessageDelivered(evt)
	}
	return nil
}

// Sent returns the messages sent through this room.
func (r *Room) Sent() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

func (r *Room) AddMemberPresenceSink(s protocol.MemberPresenceSink) (remove func()) {
	return r.memberSinks.Add(s)
}

func (r *Room) AddPropertySink(s protocol.PropertySink) (remove func()) {
	return r.propSinks.Add(s)
}

func (r *Room) AddMemberPropertySink(s protocol.MemberPropertySink) (remove func()) {
	return r.memberPropSinks.Add(s)
}

// FailJoin scripts Join to fail with err; nil clears it.
func (r *Room) FailJoin(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joinErr = err
}

// SimulateMemberJoined adds a member and fires a joined event.
// fromUserList marks the bulk report replayed right after joining.
func (r *Room) SimulateMemberJoined(m protocol.Member, fromUserList bool) {
	r.mu.Lock()
	r.members = append(r.members, m)
	r.mu.Unlock()
	r.fireMemberPresence(protocol.MemberPresenceEvent{
		Room: r, Member: m, Type: protocol.MemberJoined, FromUserList: fromUserList,
	})
}

// SimulateMemberLeft removes a member and fires the given departure type.
func (r *Room) SimulateMemberLeft(m protocol.Member, t protocol.MemberPresenceType, reason string) {
	r.mu.Lock()
	for i, q := range r.members {
		if q.Address() == m.Address() {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	r.fireMemberPresence(protocol.MemberPresenceEvent{Room: r, Member: m, Type: t, Reason: reason})
}

// SimulateRename fires a nickname change for the member.
func (r *Room) SimulateRename(m protocol.Member, oldName, newName string) {
	evt := protocol.MemberPropertyEvent{
		Room: r, Member: m, Name: protocol.PropNickname, OldName: oldName, NewName: newName,
	}
	for _, s := range r.memberPropSinks.Snapshot() {
		s(evt)
	}
}

// SimulateMessage delivers an incoming message from the member.
func (r *Room) SimulateMessage(from protocol.Member, content string, ts time.Time, history, important bool) domain.Message {
	msg := domain.Message{
		UID:         uuid.NewString(),
		Content:     content,
		ContentType: domain.ContentTypePlain,
		Timestamp:   ts,
	}
	evt := protocol.MessageEvent{
		Room:      r,
		From:      from,
		Message:   msg,
		Kind:      domain.KindConversation,
		Timestamp: ts,
		History:   history,
		Important: important,
	}
	for _, s := range r.muc.messageSinks() {
		s.MessageReceived(evt)
	}
	return msg
}

// SimulateDeliveryFailure reports a failed delivery of msg to the member.
func (r *Room) SimulateDeliveryFailure(to protocol.Member, msg domain.Message, code domain.ErrorCode, reason string) {
	f := protocol.DeliveryFailure{Room: r, To: to, Message: msg, Code: code, Reason: reason}
	for _, s := range r.muc.messageSinks() {
		s.DeliveryFailed(f)
	}
}

// SimulateKicked ejects the local user with a kick event.
func (r *Room) SimulateKicked(reason string) {
	r.mu.Lock()
	r.joined = false
	r.mu.Unlock()
	r.muc.fireLocalPresence(protocol.LocalPresenceEvent{
		Room: r, Type: protocol.LocalKicked, Reason: reason,
	})
}

// SimulateDropped reports a connection drop, optionally pointing at a
// replacement room address.
func (r *Room) SimulateDropped(reason, alternate string) {
	r.mu.Lock()
	r.joined = false
	r.mu.Unlock()
	r.muc.fireLocalPresence(protocol.LocalPresenceEvent{
		Room: r, Type: protocol.LocalDropped, Reason: reason, AlternateAddress: alternate,
	})
}

func (r *Room) fireMemberPresence(evt protocol.MemberPresenceEvent) {
	for _, s := range r.memberSinks.Snapshot() {
		s(evt)
	}
}

func (r *Room) firePropertyChange(evt protocol.PropertyEvent) {
	for _, s := range r.propSinks.Snapshot() {
		s(evt)
	}
}
