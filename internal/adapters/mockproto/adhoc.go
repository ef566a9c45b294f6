package mockproto

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// AdHocMultiUserChat implements protocol.AdHocMultiUserChat.
type AdHocMultiUserChat struct {
	p *Provider

	mu        sync.Mutex
	rooms     []*AdHocRoom
	createErr error
	rejected  []RejectedAdHocInvitation

	localSinks protocol.SinkList[protocol.AdHocLocalPresenceSink]
	invSinks   protocol.SinkList[protocol.AdHocInvitationSink]
	msgSinks   protocol.SinkList[protocol.AdHocMessageSink]
}

// RejectedAdHocInvitation records an ad-hoc invitation the local user
// turned down.
type RejectedAdHocInvitation struct {
	Invitation protocol.AdHocInvitation
	Reason     string
}

func newAdHocMultiUserChat(p *Provider) *AdHocMultiUserChat {
	return &AdHocMultiUserChat{p: p}
}

func (m *AdHocMultiUserChat) CreateRoom(name domain.RoomName, members []string, reason string) (protocol.AdHocRoom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	r := &AdHocRoom{
		op: m,
		identity: domain.RoomIdentity{
			Provider: m.p.ID(),
			ID:       domain.RoomID(name),
			Name:     name,
		},
		invited: append([]string(nil), members...),
		reason:  reason,
	}
	m.rooms = append(m.rooms, r)
	return r, nil
}

// FailCreate scripts CreateRoom to fail with err; nil clears it.
func (m *AdHocMultiUserChat) FailCreate(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErr = err
}

// Rooms returns the created rooms in creation order.
func (m *AdHocMultiUserChat) Rooms() []*AdHocRoom {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*AdHocRoom, len(m.rooms))
	copy(out, m.rooms)
	return out
}

func (m *AdHocMultiUserChat) RejectInvitation(inv protocol.AdHocInvitation, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, RejectedAdHocInvitation{Invitation: inv, Reason: reason})
	return nil
}

// Rejected returns the recorded invitation rejections.
func (m *AdHocMultiUserChat) Rejected() []RejectedAdHocInvitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RejectedAdHocInvitation, len(m.rejected))
	copy(out, m.rejected)
	return out
}

func (m *AdHocMultiUserChat) AddLocalPresenceSink(s protocol.AdHocLocalPresenceSink) (remove func()) {
	return m.localSinks.Add(s)
}

func (m *AdHocMultiUserChat) AddInvitationSink(s protocol.AdHocInvitationSink) (remove func()) {
	return m.invSinks.Add(s)
}

func (m *AdHocMultiUserChat) AddMessageSink(s protocol.AdHocMessageSink) (remove func()) {
	return m.msgSinks.Add(s)
}

// SimulateInvitation delivers an incoming ad-hoc invitation.
func (m *AdHocMultiUserChat) SimulateInvitation(room *AdHocRoom, inviter, reason string) {
	inv := protocol.AdHocInvitation{Target: room, Inviter: inviter, Reason: reason}
	for _, s := range m.invSinks.Snapshot() {
		s(inv)
	}
}

func (m *AdHocMultiUserChat) fireLocalPresence(evt protocol.AdHocLocalPresenceEvent) {
	for _, s := range m.localSinks.Snapshot() {
		s(evt)
	}
}

func (m *AdHocMultiUserChat) messageSinks() []protocol.AdHocMessageSink {
	return m.msgSinks.Snapshot()
}

// AdHocRoom implements protocol.AdHocRoom.
type AdHocRoom struct {
	op       *AdHocMultiUserChat
	identity domain.RoomIdentity
	invited  []string
	reason   string

	mu      sync.Mutex
	joined  bool
	joinErr error
	members []protocol.Member
	sent    []SentMessage

	memberSinks protocol.SinkList[protocol.AdHocMemberPresenceSink]
}

func (r *AdHocRoom) Identity() domain.RoomIdentity { return r.identity }
func (r *AdHocRoom) Provider() protocol.Provider   { return r.op.p }

// Invited returns the addresses invited at creation.
func (r *AdHocRoom) Invited() []string { return r.invited }

func (r *AdHocRoom) Join() error {
	r.mu.Lock()
	if err := r.joinErr; err != nil {
		r.mu.Unlock()
		return err
	}
	r.joined = true
	r.mu.Unlock()

	r.op.fireLocalPresence(protocol.AdHocLocalPresenceEvent{Room: r, Type: protocol.LocalJoined})
	return nil
}

func (r *AdHocRoom) Leave() {
	r.mu.Lock()
	if !r.joined {
		r.mu.Unlock()
		return
	}
	r.joined = false
	r.mu.Unlock()

	r.op.fireLocalPresence(protocol.AdHocLocalPresenceEvent{Room: r, Type: protocol.LocalLeft})
}

func (r *AdHocRoom) IsJoined() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.joined
}

func (r *AdHocRoom) Members() []protocol.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.Member, len(r.members))
	copy(out, r.members)
	return out
}

func (r *AdHocRoom) Invite(address, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invited = append(r.invited, address)
	return nil
}

func (r *AdHocRoom) Send(msg domain.Message, kind domain.MessageKind) error {
	if kind == domain.KindSystem {
		return domain.ErrNotSupported
	}
	r.mu.Lock()
	r.sent = append(r.sent, SentMessage{Message: msg, Kind: kind})
	r.mu.Unlock()

	evt := protocol.MessageEvent{
		AdHocRoom: r,
		From:      NewMember(r.op.p.Account().Address, r.op.p.Account().BareName(), domain.RoleNone),
		Message:   msg,
		Kind:      kind,
		Timestamp: msg.Timestamp,
	}
	for _, s := range r.op.messageSinks() {
		s.MessageDelivered(evt)
	}
	return nil
}

// Sent returns the messages sent through this room.
func (r *AdHocRoom) Sent() []SentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}

func (r *AdHocRoom) AddMemberPresenceSink(s protocol.AdHocMemberPresenceSink) (remove func()) {
	return r.memberSinks.Add(s)
}

// FailJoin scripts Join to fail with err; nil clears it.
func (r *AdHocRoom) FailJoin(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joinErr = err
}

// SimulateMemberJoined adds a member and fires a joined event.
func (r *AdHocRoom) SimulateMemberJoined(m protocol.Member) {
	r.mu.Lock()
	r.members = append(r.members, m)
	r.mu.Unlock()
	r.fireMemberPresence(protocol.AdHocMemberPresenceEvent{Room: r, Member: m, Type: protocol.MemberJoined})
}

// SimulateMemberLeft removes a member and fires a left event.
func (r *AdHocRoom) SimulateMemberLeft(m protocol.Member, reason string) {
	r.mu.Lock()
	for i, q := range r.members {
		if q.Address() == m.Address() {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	r.fireMemberPresence(protocol.AdHocMemberPresenceEvent{
		Room: r, Member: m, Type: protocol.MemberLeft, Reason: reason,
	})
}

// SimulateMessage delivers an incoming message from the member.
func (r *AdHocRoom) SimulateMessage(from protocol.Member, content string, ts time.Time) domain.Message {
	msg := domain.Message{
		UID:         uuid.NewString(),
		Content:     content,
		ContentType: domain.ContentTypePlain,
		Timestamp:   ts,
	}
	evt := protocol.MessageEvent{
		AdHocRoom: r,
		From:      from,
		Message:   msg,
		Kind:      domain.KindConversation,
		Timestamp: ts,
	}
	for _, s := range r.op.messageSinks() {
		s.MessageReceived(evt)
	}
	return msg
}

func (r *AdHocRoom) fireMemberPresence(evt protocol.AdHocMemberPresenceEvent) {
	for _, s := range r.memberSinks.Snapshot() {
		s(evt)
	}
}
