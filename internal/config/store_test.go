package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Conclave/internal/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.yaml")

	s, err := OpenStore(path)
	require.NoError(t, err)

	identity := domain.RoomIdentity{
		Provider: "xmpp1",
		ID:       "dev@conference.example.org",
		Name:     "Dev Room",
	}
	s.SaveRoom(identity)
	s.SetDisposition(identity.Provider, identity.ID, StatusOffline)
	s.SetNickname(identity.Provider, identity.ID, "alice")
	s.SetOpenPolicy(identity.Provider, identity.ID, domain.OpenOnActivity)

	reopened, err := OpenStore(path)
	require.NoError(t, err)

	rooms := reopened.Rooms("xmpp1")
	require.Len(t, rooms, 1)
	assert.Equal(t, identity, rooms[0])
	assert.Equal(t, StatusOffline, reopened.Disposition(identity.Provider, identity.ID))
	assert.Equal(t, "alice", reopened.Nickname(identity.Provider, identity.ID))
	assert.Equal(t, domain.OpenOnActivity, reopened.OpenPolicy(identity.Provider, identity.ID))
}

func TestStoreRoomIDsMayContainDots(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)

	a := domain.RoomIdentity{Provider: "p", ID: "a.b@c.example.org", Name: "A"}
	b := domain.RoomIdentity{Provider: "p", ID: "a@c.example.org", Name: "B"}
	s.SaveRoom(a)
	s.SaveRoom(b)

	assert.ElementsMatch(t, []domain.RoomIdentity{a, b}, s.Rooms("p"))
}

func TestStoreKeepsInsertionOrderAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.yaml")

	s, err := OpenStore(path)
	require.NoError(t, err)

	var want []domain.RoomIdentity
	for _, id := range []domain.RoomID{"z@x", "m@x", "a@x", "q@x", "b@x"} {
		identity := domain.RoomIdentity{Provider: "p", ID: id, Name: domain.RoomName(id)}
		s.SaveRoom(identity)
		want = append(want, identity)
	}
	// Re-saving must not move a room to the back.
	s.SaveRoom(want[0])
	assert.Equal(t, want, s.Rooms("p"))

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	assert.Equal(t, want, reopened.Rooms("p"))
}

func TestStoreRemovedRoomRejoinsAtTheBack(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)

	first := domain.RoomIdentity{Provider: "p", ID: "first@x", Name: "First"}
	second := domain.RoomIdentity{Provider: "p", ID: "second@x", Name: "Second"}
	s.SaveRoom(first)
	s.SaveRoom(second)

	s.RemoveRoom(first.Provider, first.ID)
	s.SaveRoom(first)
	assert.Equal(t, []domain.RoomIdentity{second, first}, s.Rooms("p"))
}

func TestStoreRemoveRoom(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)

	identity := domain.RoomIdentity{Provider: "p", ID: "r@x", Name: "R"}
	s.SaveRoom(identity)
	s.SetNickname(identity.Provider, identity.ID, "alice")
	require.Len(t, s.Rooms("p"), 1)

	s.RemoveRoom(identity.Provider, identity.ID)
	assert.Empty(t, s.Rooms("p"))
	assert.Empty(t, s.Nickname(identity.Provider, identity.ID))
}

func TestStoreDefaults(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)

	// Unset disposition counts as online so freshly saved rooms auto-join.
	assert.Equal(t, StatusOnline, s.Disposition("p", "r@x"))
	assert.Equal(t, domain.OpenOnMessage, s.OpenPolicy("p", "r@x"))
}

func TestStoreProvidersKeptSeparate(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)

	s.SaveRoom(domain.RoomIdentity{Provider: "p1", ID: "r@x", Name: "R"})
	assert.Empty(t, s.Rooms("p2"))
}
