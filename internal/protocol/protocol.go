// Package protocol defines the in-process boundary to the protocol-provider
// layer (XMPP, SIP, ...). The provider implementations live elsewhere; this
// core only calls into them and receives their asynchronous events.
//
// Events are delivered on provider-internal goroutines, arbitrarily
// interleaved across rooms and providers. Per-room delivery order is
// guaranteed; nothing else is.
package protocol

import (
	"time"

	"github.com/dkeye/Conclave/internal/domain"
)

// Provider is one registered account. Operation sets return nil when the
// capability is unsupported by the account's protocol.
type Provider interface {
	ID() domain.ProviderID
	Account() *domain.Account
	IsRegistered() bool

	MultiUserChat() MultiUserChat
	AdHocMultiUserChat() AdHocMultiUserChat
}

// MultiUserChat is the persistent-conference operation set of a provider.
type MultiUserChat interface {
	// FindRoom resolves a room by name on the server. The round-trip may
	// block; never call it on an event-delivery goroutine.
	FindRoom(name domain.RoomName) (Room, error)
	CreateRoom(name domain.RoomName) (Room, error)
	RejectInvitation(inv Invitation, reason string) error

	AddLocalPresenceSink(LocalPresenceSink) (remove func())
	AddInvitationSink(InvitationSink) (remove func())
	AddMessageSink(MessageSink) (remove func())
}

// AdHocMultiUserChat is the operation set for rooms without persistent
// server-side existence.
type AdHocMultiUserChat interface {
	// CreateRoom creates an ad-hoc room and invites the given member
	// addresses with the given reason.
	CreateRoom(name domain.RoomName, members []string, reason string) (AdHocRoom, error)
	RejectInvitation(inv AdHocInvitation, reason string) error

	AddLocalPresenceSink(AdHocLocalPresenceSink) (remove func())
	AddInvitationSink(AdHocInvitationSink) (remove func())
	AddMessageSink(AdHocMessageSink) (remove func())
}

// Room is the live handle of a resolved conference room. It exists only
// while the account is registered and the room has been resolved; wrappers
// in the core outlive it.
type Room interface {
	Identity() domain.RoomIdentity
	Provider() Provider

	Join() error
	JoinAs(nickname string, password []byte) error
	Leave()
	IsJoined() bool

	// IsSystem reports whether this is the provider's system room, used
	// for server announcements rather than user conversations.
	IsSystem() bool

	Subject() string
	SetSubject(string) error
	UserNickname() string

	Members() []Member
	Invite(address, reason string) error
	Send(msg domain.Message, kind domain.MessageKind) error

	AddMemberPresenceSink(MemberPresenceSink) (remove func())
	AddPropertySink(PropertySink) (remove func())
	AddMemberPropertySink(MemberPropertySink) (remove func())
}

// AdHocRoom is the live handle of an ad-hoc room. No subject, no roles, no
// system flavor.
type AdHocRoom interface {
	Identity() domain.RoomIdentity
	Provider() Provider

	Join() error
	Leave()
	IsJoined() bool

	Members() []Member
	Invite(address, reason string) error
	Send(msg domain.Message, kind domain.MessageKind) error

	AddMemberPresenceSink(AdHocMemberPresenceSink) (remove func())
}

// Member is a protocol-layer room member handle. Two handles denote the
// same member iff their addresses match.
type Member interface {
	Address() string
	Name() string
	Role() domain.MemberRole
	Avatar() []byte
}

// History is the optional message-history service. A nil History means
// history is disabled by configuration.
type History interface {
	FindLast(room domain.RoomIdentity, count int) []MessageEvent
	FindBefore(room domain.RoomIdentity, date time.Time, count int) []MessageEvent
}

// Invitation is an incoming conference-room invitation.
type Invitation struct {
	Target  Room
	Inviter string
	Reason  string
}

// AdHocInvitation is an incoming ad-hoc room invitation.
type AdHocInvitation struct {
	Target  AdHocRoom
	Inviter string
	Reason  string
}
