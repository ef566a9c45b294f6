package mockproto

import (
	"sync"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// MultiUserChat implements protocol.MultiUserChat. Rooms are created on
// demand; scripted failures override resolution per room name.
type MultiUserChat struct {
	p *Provider

	mu       sync.Mutex
	rooms    map[domain.RoomName]*Room
	findErr  map[domain.RoomName]error
	rejected []RejectedInvitation

	localSinks protocol.SinkList[protocol.LocalPresenceSink]
	invSinks   protocol.SinkList[protocol.InvitationSink]
	msgSinks   protocol.SinkList[protocol.MessageSink]
}

// RejectedInvitation records an invitation the local user turned down.
type RejectedInvitation struct {
	Invitation protocol.Invitation
	Reason     string
}

func newMultiUserChat(p *Provider) *MultiUserChat {
	return &MultiUserChat{
		p:       p,
		rooms:   make(map[domain.RoomName]*Room),
		findErr: make(map[domain.RoomName]error),
	}
}

// FindRoom resolves a room by name, creating it when unknown, the way a
// conference server materializes rooms on first reference.
func (m *MultiUserChat) FindRoom(name domain.RoomName) (protocol.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.findErr[name]; err != nil {
		return nil, err
	}
	return m.roomLocked(name), nil
}

func (m *MultiUserChat) CreateRoom(name domain.RoomName) (protocol.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomLocked(name), nil
}

func (m *MultiUserChat) roomLocked(name domain.RoomName) *Room {
	if r, ok := m.rooms[name]; ok {
		return r
	}
	r := newRoom(m, domain.RoomIdentity{
		Provider: m.p.ID(),
		ID:       domain.RoomID(name),
		Name:     name,
	}, false)
	m.rooms[name] = r
	return r
}

// Room returns the scriptable room handle by name, creating it when
// unknown.
func (m *MultiUserChat) Room(name domain.RoomName) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roomLocked(name)
}

// SystemRoom returns the provider's announcement room, creating it on
// first use.
func (m *MultiUserChat) SystemRoom() *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := domain.RoomName(m.p.Account().Address)
	id := domain.RoomID("system." + m.p.Account().Address)
	if r, ok := m.rooms[name]; ok {
		return r
	}
	r := newRoom(m, domain.RoomIdentity{Provider: m.p.ID(), ID: id, Name: name}, true)
	m.rooms[name] = r
	return r
}

// FailFind scripts FindRoom to fail for the given name; nil clears it.
func (m *MultiUserChat) FailFind(name domain.RoomName, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.findErr, name)
		return
	}
	m.findErr[name] = err
}

func (m *MultiUserChat) RejectInvitation(inv protocol.Invitation, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected = append(m.rejected, RejectedInvitation{Invitation: inv, Reason: reason})
	return nil
}

// Rejected returns the recorded invitation rejections.
func (m *MultiUserChat) Rejected() []RejectedInvitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RejectedInvitation, len(m.rejected))
	copy(out, m.rejected)
	return out
}

func (m *MultiUserChat) AddLocalPresenceSink(s protocol.LocalPresenceSink) (remove func()) {
	return m.localSinks.Add(s)
}

func (m *MultiUserChat) AddInvitationSink(s protocol.InvitationSink) (remove func()) {
	return m.invSinks.Add(s)
}

func (m *MultiUserChat) AddMessageSink(s protocol.MessageSink) (remove func()) {
	return m.msgSinks.Add(s)
}

// SimulateInvitation delivers an incoming invitation to the room.
func (m *MultiUserChat) SimulateInvitation(room *Room, inviter, reason string) {
	inv := protocol.Invitation{Target: room, Inviter: inviter, Reason: reason}
	for _, s := range m.invSinks.Snapshot() {
		s(inv)
	}
}

func (m *MultiUserChat) fireLocalPresence(evt protocol.LocalPresenceEvent) {
	for _, s := range m.localSinks.Snapshot() {
		s(evt)
	}
}

func (m *MultiUserChat) messageSinks() []protocol.MessageSink {
	return m.msgSinks.Snapshot()
}
