package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Conclave/internal/adapters/mockproto"
	"github.com/dkeye/Conclave/internal/dispatch"
	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

type renderCall struct {
	op string
	a  string
	b  string
}

// recordingRenderer captures renderer calls for assertion. All calls arrive
// on the dispatcher goroutine; tests read after Sync.
type recordingRenderer struct {
	calls []renderCall
	kinds []domain.MessageKind
}

func (r *recordingRenderer) AddChatContact(c *ChatContact) {
	r.calls = append(r.calls, renderCall{"add", c.Name(), ""})
}

func (r *recordingRenderer) RemoveChatContact(c *ChatContact) {
	r.calls = append(r.calls, renderCall{"remove", c.Name(), ""})
}

func (r *recordingRenderer) RemoveAllChatContacts() {
	r.calls = append(r.calls, renderCall{"clear", "", ""})
}

func (r *recordingRenderer) UpdateChatContactStatus(c *ChatContact, statusMessage string) {
	r.calls = append(r.calls, renderCall{"status", c.Name(), statusMessage})
}

func (r *recordingRenderer) SetChatSubject(subject string) {
	r.calls = append(r.calls, renderCall{"subject", subject, ""})
}

func (r *recordingRenderer) AddMessage(from string, _ time.Time, kind domain.MessageKind, content, _, _ string) {
	r.calls = append(r.calls, renderCall{"msg", from, content})
	r.kinds = append(r.kinds, kind)
}

func (r *recordingRenderer) AddErrorMessage(to, errorMessage string) {
	r.calls = append(r.calls, renderCall{"err", to, errorMessage})
}

func (r *recordingRenderer) ops() []string {
	var out []string
	for _, c := range r.calls {
		out = append(out, c.op)
	}
	return out
}

func (r *recordingRenderer) reset() {
	r.calls = nil
	r.kinds = nil
}

type sessionFixture struct {
	disp     *dispatch.Dispatcher
	room     *mockproto.Room
	wrapper  *RoomWrapper
	session  *ConferenceSession
	renderer *recordingRenderer
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	account, err := domain.NewAccount("p", "alice@example.org", "Alice")
	require.NoError(t, err)
	p := mockproto.NewProvider("p", account)
	room := p.Muc().Room("dev@conf.example.org")
	require.NoError(t, room.JoinAs("alice", nil))

	pw := NewProviderWrapper(p)
	w := WrapRoom(pw, room)
	pw.AddRoom(w)

	disp := dispatch.New()
	t.Cleanup(disp.Close)
	renderer := &recordingRenderer{}

	var s *ConferenceSession
	disp.Post(func() {
		s = NewConferenceSession(disp, renderer, w, nil, SessionConfig{})
	})
	disp.Sync()
	require.Equal(t, SessionLoaded, s.State())

	return &sessionFixture{disp: disp, room: room, wrapper: w, session: s, renderer: renderer}
}

func TestSessionLoadPopulatesFromSnapshot(t *testing.T) {
	f := newSessionFixture(t)
	assert.Equal(t, []string{"clear", "subject"}, f.renderer.ops())
	f.renderer.reset()

	bob := mockproto.NewMember("bob@x", "bob", domain.RoleModerator)
	f.room.SimulateMemberJoined(bob, false)
	f.disp.Sync()

	require.Equal(t, []string{"add", "status"}, f.renderer.ops())
	assert.Equal(t, "has joined dev@conf.example.org", f.renderer.calls[1].b)
	assert.Len(t, f.session.Contacts(), 1)
}

func TestSessionUserListJoinSuppressesStatusLine(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()

	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)
	f.room.SimulateMemberJoined(bob, true)
	f.disp.Sync()

	assert.Equal(t, []string{"add"}, f.renderer.ops())
}

func TestSessionDuplicateJoinIsIdempotent(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()

	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)
	f.room.SimulateMemberJoined(bob, false)
	f.room.SimulateMemberJoined(mockproto.NewMember("bob@x", "bob", domain.RoleMember), true)
	f.disp.Sync()

	assert.Equal(t, []string{"add", "status"}, f.renderer.ops())
	assert.Len(t, f.session.Contacts(), 1)
}

func TestSessionDepartureRendersExactlyOneStatusBeforeRemoval(t *testing.T) {
	f := newSessionFixture(t)
	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)
	f.room.SimulateMemberJoined(bob, true)
	f.disp.Sync()
	f.renderer.reset()

	f.room.SimulateMemberLeft(bob, protocol.MemberKicked, "spam")
	f.disp.Sync()

	require.Equal(t, []string{"status", "remove"}, f.renderer.ops())
	assert.Equal(t, "was kicked from dev@conf.example.org", f.renderer.calls[0].b)
	assert.Empty(t, f.session.Contacts())

	// A second departure for the same member renders nothing.
	f.renderer.reset()
	f.room.SimulateMemberLeft(bob, protocol.MemberLeft, "")
	f.disp.Sync()
	assert.Empty(t, f.renderer.calls)
}

func TestSessionIgnoresEventsOfOtherRooms(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()

	// Deliver a presence event whose room identity differs.
	stray := mockproto.NewProvider("p", f.wrapper.Provider().Provider().Account())
	strayRoom := stray.Muc().Room("other@conf.example.org")
	f.disp.Post(func() {
		f.session.applyMemberPresence(protocol.MemberPresenceEvent{
			Room:   strayRoom,
			Member: mockproto.NewMember("bob@x", "bob", domain.RoleMember),
			Type:   protocol.MemberJoined,
		})
	})
	f.disp.Sync()

	assert.Empty(t, f.renderer.calls)
}

func TestSessionSubjectChange(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()

	require.NoError(t, f.room.SetSubject("release planning"))
	f.disp.Sync()

	require.Equal(t, []string{"subject"}, f.renderer.ops())
	assert.Equal(t, "release planning", f.renderer.calls[0].a)
}

func TestSessionNicknameChangeResortsAndAnnounces(t *testing.T) {
	f := newSessionFixture(t)
	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)
	f.room.SimulateMemberJoined(bob, true)
	f.disp.Sync()
	f.renderer.reset()

	bob.SetName("robert")
	f.room.SimulateRename(bob, "bob", "robert")
	f.disp.Sync()

	require.Equal(t, []string{"status"}, f.renderer.ops())
	assert.Equal(t, "robert", f.renderer.calls[0].a)
	assert.Equal(t, "is now known as robert", f.renderer.calls[0].b)
	require.Len(t, f.session.Contacts(), 1)
	assert.Equal(t, "robert", f.session.Contacts()[0].Name())
}

func TestSessionHistoryReplayIsSuppressed(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()
	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)
	ts := time.Now()

	f.disp.Post(func() {
		live := f.session.RenderIncoming
		live(protocol.MessageEvent{
			Room: f.room, From: bob, Timestamp: ts,
			Message: domain.Message{UID: "u1", Content: "hello", ContentType: domain.ContentTypePlain},
		})
		// Server replays the same message flagged as history after a
		// reconnect.
		live(protocol.MessageEvent{
			Room: f.room, From: bob, Timestamp: ts, History: true,
			Message: domain.Message{UID: "u2", Content: "hello", ContentType: domain.ContentTypePlain},
		})
		// A history message never rendered before still shows.
		live(protocol.MessageEvent{
			Room: f.room, From: bob, Timestamp: ts.Add(time.Hour), History: true,
			Message: domain.Message{UID: "u3", Content: "earlier", ContentType: domain.ContentTypePlain},
		})
	})
	f.disp.Sync()

	require.Equal(t, []string{"msg", "msg"}, f.renderer.ops())
	assert.Equal(t, "hello", f.renderer.calls[0].b)
	assert.Equal(t, "earlier", f.renderer.calls[1].b)
}

func TestSessionRenderOutgoingUsesOwnNickname(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()

	f.disp.Post(func() {
		f.session.RenderOutgoing(protocol.MessageEvent{
			Room:      f.room,
			Timestamp: time.Now(),
			Message:   domain.Message{UID: "u1", Content: "shipping today", ContentType: domain.ContentTypePlain},
		})
	})
	f.disp.Sync()

	require.Equal(t, []string{"msg"}, f.renderer.ops())
	assert.Equal(t, "alice", f.renderer.calls[0].a)
}

func TestSessionDeliveryFailureRendersMessageThenError(t *testing.T) {
	f := newSessionFixture(t)
	f.renderer.reset()
	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)

	f.disp.Post(func() {
		f.session.RenderDeliveryFailure(protocol.DeliveryFailure{
			Room:    f.room,
			To:      bob,
			Message: domain.Message{UID: "u1", Content: "lost", ContentType: domain.ContentTypePlain},
		}, "The message was not delivered due to a network failure.")
	})
	f.disp.Sync()

	require.Equal(t, []string{"msg", "err"}, f.renderer.ops())
	assert.Equal(t, "lost", f.renderer.calls[0].b)
	assert.Equal(t, "bob", f.renderer.calls[1].a)
}

func TestSessionDisposeLeavesWhenConfigured(t *testing.T) {
	account, err := domain.NewAccount("p", "alice@example.org", "Alice")
	require.NoError(t, err)
	p := mockproto.NewProvider("p", account)
	room := p.Muc().Room("dev@conf.example.org")
	require.NoError(t, room.Join())

	pw := NewProviderWrapper(p)
	w := WrapRoom(pw, room)
	disp := dispatch.New()
	defer disp.Close()

	var s *ConferenceSession
	disp.Post(func() {
		s = NewConferenceSession(disp, &recordingRenderer{}, w, nil, SessionConfig{LeaveOnClose: true})
	})
	disp.Sync()

	disp.Post(s.Dispose)
	disp.Sync()

	assert.Equal(t, SessionDisposed, s.State())
	assert.False(t, room.IsJoined())

	// Membership churn after disposal is ignored.
	room.SimulateMemberJoined(mockproto.NewMember("bob@x", "bob", domain.RoleMember), false)
	disp.Sync()
	assert.Empty(t, s.Contacts())
}

func TestSessionLoadRoomRebindsAfterReconnect(t *testing.T) {
	f := newSessionFixture(t)
	bob := mockproto.NewMember("bob@x", "bob", domain.RoleMember)
	f.room.SimulateMemberJoined(bob, true)
	f.disp.Sync()
	f.renderer.reset()

	// Reconnect: a fresh member snapshot replaces the stale one.
	fresh := f.room
	f.disp.Post(func() { f.session.LoadRoom(fresh) })
	f.disp.Sync()

	ops := f.renderer.ops()
	require.NotEmpty(t, ops)
	assert.Equal(t, "clear", ops[0])
	assert.Len(t, f.session.Contacts(), 1)
}
