package protocol

import (
	"time"

	"github.com/dkeye/Conclave/internal/domain"
)

// LocalPresenceType enumerates local-user room lifecycle events.
type LocalPresenceType int

const (
	LocalJoined LocalPresenceType = iota
	LocalJoinFailed
	LocalLeft
	LocalKicked
	LocalDropped
)

// LocalPresenceEvent notifies a change of the local user's presence in a
// room.
type LocalPresenceEvent struct {
	Room   Room
	Type   LocalPresenceType
	Reason string
	// AlternateAddress optionally points to a replacement room when the
	// server moved the conference.
	AlternateAddress string
}

// AdHocLocalPresenceEvent is the ad-hoc variant. Kicks do not exist for
// ad-hoc rooms.
type AdHocLocalPresenceEvent struct {
	Room   AdHocRoom
	Type   LocalPresenceType
	Reason string
}

// MemberPresenceType enumerates remote-member lifecycle events.
type MemberPresenceType int

const (
	MemberJoined MemberPresenceType = iota
	MemberLeft
	MemberKicked
	MemberQuit
)

// MemberPresenceEvent notifies a membership change in a room.
type MemberPresenceEvent struct {
	Room   Room
	Member Member
	Type   MemberPresenceType
	Reason string
	// FromUserList marks bulk membership reports replayed right after
	// joining; per-member status lines are suppressed for those.
	FromUserList bool
}

// AdHocMemberPresenceEvent is the ad-hoc variant.
type AdHocMemberPresenceEvent struct {
	Room   AdHocRoom
	Member Member
	Type   MemberPresenceType
	Reason string
}

// MessageEvent carries a received or delivered room message.
type MessageEvent struct {
	Room      Room
	AdHocRoom AdHocRoom
	From      Member
	Message   domain.Message
	Kind      domain.MessageKind
	Timestamp time.Time
	History   bool
	Important bool
}

// DeliveryFailure reports a message that could not be delivered to a
// member.
type DeliveryFailure struct {
	Room      Room
	AdHocRoom AdHocRoom
	To        Member
	Message   domain.Message
	Code      domain.ErrorCode
	Reason    string
}

// PropertyEvent notifies a room property change.
type PropertyEvent struct {
	Room Room
	Name string // PropSubject
	Old  string
	New  string
}

const PropSubject = "subject"

// MemberPropertyEvent notifies a member property change (nickname).
type MemberPropertyEvent struct {
	Room    Room
	Member  Member
	Name    string // PropNickname
	OldName string
	NewName string
}

const PropNickname = "nickname"

// Capability sinks. The manager registers one handler per event category
// instead of implementing a dozen listener interfaces on a single type.
type (
	LocalPresenceSink       func(LocalPresenceEvent)
	AdHocLocalPresenceSink  func(AdHocLocalPresenceEvent)
	MemberPresenceSink      func(MemberPresenceEvent)
	AdHocMemberPresenceSink func(AdHocMemberPresenceEvent)
	InvitationSink          func(Invitation)
	AdHocInvitationSink     func(AdHocInvitation)
	PropertySink            func(PropertyEvent)
	MemberPropertySink      func(MemberPropertyEvent)
)

// MessageSink receives the three message event classes of a conference
// operation set.
type MessageSink interface {
	MessageReceived(MessageEvent)
	MessageDelivered(MessageEvent)
	DeliveryFailed(DeliveryFailure)
}

// AdHocMessageSink is the ad-hoc variant.
type AdHocMessageSink interface {
	MessageReceived(MessageEvent)
	MessageDelivered(MessageEvent)
	DeliveryFailed(DeliveryFailure)
}
