package core

import (
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// Transport exposes room-scoped send/invite operations uniformly alongside
// one-to-one messaging transports.
type Transport interface {
	Name() domain.RoomName
	// Send creates and sends a message through the room, returning its
	// UID.
	Send(content string, kind domain.MessageKind) (string, error)
	Invite(address, reason string) error
	AllowsSystemMessages() bool
}

// ConferenceTransport adapts a live conference room.
type ConferenceTransport struct {
	room protocol.Room
}

func NewConferenceTransport(room protocol.Room) *ConferenceTransport {
	return &ConferenceTransport{room: room}
}

func (t *ConferenceTransport) Name() domain.RoomName { return t.room.Identity().Name }

func (t *ConferenceTransport) Send(content string, kind domain.MessageKind) (string, error) {
	if t.room == nil {
		return "", domain.ErrNoLiveRoom
	}
	msg := domain.NewMessage(content)
	if err := t.room.Send(msg, kind); err != nil {
		return "", err
	}
	return msg.UID, nil
}

func (t *ConferenceTransport) Invite(address, reason string) error {
	if t.room == nil {
		return domain.ErrNoLiveRoom
	}
	return t.room.Invite(address, reason)
}

func (t *ConferenceTransport) AllowsSystemMessages() bool { return true }

// AdHocTransport adapts a live ad-hoc room. SYSTEM messages do not exist
// there.
type AdHocTransport struct {
	room protocol.AdHocRoom
}

func NewAdHocTransport(room protocol.AdHocRoom) *AdHocTransport {
	return &AdHocTransport{room: room}
}

func (t *AdHocTransport) Name() domain.RoomName { return t.room.Identity().Name }

func (t *AdHocTransport) Send(content string, kind domain.MessageKind) (string, error) {
	if t.room == nil {
		return "", domain.ErrNoLiveRoom
	}
	if kind == domain.KindSystem {
		return "", domain.ErrNotSupported
	}
	msg := domain.NewMessage(content)
	if err := t.room.Send(msg, kind); err != nil {
		return "", err
	}
	return msg.UID, nil
}

func (t *AdHocTransport) Invite(address, reason string) error {
	if t.room == nil {
		return domain.ErrNoLiveRoom
	}
	return t.room.Invite(address, reason)
}

func (t *AdHocTransport) AllowsSystemMessages() bool { return false }
