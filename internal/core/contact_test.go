package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Conclave/internal/adapters/mockproto"
	"github.com/dkeye/Conclave/internal/domain"
)

func contactNames(m *MemberModel) []string {
	var out []string
	for _, c := range m.Contacts() {
		out = append(out, c.Name())
	}
	return out
}

func TestMemberModelSortsByRoleThenName(t *testing.T) {
	m := NewMemberModel()
	m.Add(NewChatContact(mockproto.NewMember("c@x", "carol", domain.RoleMember)))
	m.Add(NewChatContact(mockproto.NewMember("a@x", "alice", domain.RoleOwner)))
	m.Add(NewChatContact(mockproto.NewMember("b@x", "Bob", domain.RoleMember)))
	m.Add(NewChatContact(mockproto.NewMember("d@x", "dave", domain.RoleModerator)))

	assert.Equal(t, []string{"alice", "dave", "Bob", "carol"}, contactNames(m))
}

func TestMemberModelNameSortIsCaseInsensitive(t *testing.T) {
	m := NewMemberModel()
	m.Add(NewChatContact(mockproto.NewMember("b@x", "Bob", domain.RoleMember)))
	m.Add(NewChatContact(mockproto.NewMember("a@x", "alice", domain.RoleMember)))
	m.Add(NewChatContact(mockproto.NewMember("c@x", "CAROL", domain.RoleMember)))

	assert.Equal(t, []string{"alice", "Bob", "CAROL"}, contactNames(m))
}

func TestMemberModelAddIsIdempotentPerAddress(t *testing.T) {
	m := NewMemberModel()
	bob := mockproto.NewMember("b@x", "bob", domain.RoleMember)

	first, added := m.Add(NewChatContact(bob))
	assert.True(t, added)

	// The member list replay after joining reports members again.
	second, added := m.Add(NewChatContact(bob))
	assert.False(t, added)
	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Len())
}

func TestMemberModelRemove(t *testing.T) {
	m := NewMemberModel()
	bob := mockproto.NewMember("b@x", "bob", domain.RoleMember)
	m.Add(NewChatContact(bob))

	removed := m.Remove(bob)
	require.NotNil(t, removed)
	assert.Equal(t, "bob", removed.Name())
	assert.Zero(t, m.Len())

	assert.Nil(t, m.Remove(bob))
}

func TestMemberModelRenameResorts(t *testing.T) {
	m := NewMemberModel()
	bob := mockproto.NewMember("b@x", "bob", domain.RoleMember)
	m.Add(NewChatContact(bob))
	m.Add(NewChatContact(mockproto.NewMember("m@x", "mallory", domain.RoleMember)))

	c := m.Rename(bob, "zed")
	require.NotNil(t, c)
	assert.Equal(t, "zed", c.Name())
	assert.Equal(t, []string{"mallory", "zed"}, contactNames(m))
}

func TestRoleBearingContactsPrecedeRoleless(t *testing.T) {
	silent := NewChatContact(mockproto.NewMember("s@x", "aaa", domain.RoleSilent))
	owner := NewChatContact(mockproto.NewMember("o@x", "zzz", domain.RoleOwner))
	assert.True(t, owner.Less(silent))
	assert.False(t, silent.Less(owner))
}
