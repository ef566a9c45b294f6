package core

import (
	"strings"

	"github.com/samber/lo"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// ChatContact is one room member as shown in a chat window's member list.
type ChatContact struct {
	descriptor protocol.Member
	name       string
	role       domain.MemberRole
	avatar     []byte
}

// NewChatContact wraps a conference member, carrying its role.
func NewChatContact(m protocol.Member) *ChatContact {
	return &ChatContact{descriptor: m, name: m.Name(), role: m.Role(), avatar: m.Avatar()}
}

// NewAdHocChatContact wraps an ad-hoc participant. No role.
func NewAdHocChatContact(m protocol.Member) *ChatContact {
	return &ChatContact{descriptor: m, name: m.Name(), role: domain.RoleNone, avatar: m.Avatar()}
}

func (c *ChatContact) Descriptor() protocol.Member { return c.descriptor }
func (c *ChatContact) Name() string                { return c.name }
func (c *ChatContact) Role() domain.MemberRole     { return c.role }
func (c *ChatContact) Avatar() []byte              { return c.avatar }

// Rename updates the display name on a nickname change.
func (c *ChatContact) Rename(name string) { c.name = name }

// Matches reports whether the contact wraps the same member handle, by
// descriptor address equality.
func (c *ChatContact) Matches(m protocol.Member) bool {
	return c.descriptor.Address() == m.Address()
}

// Less orders contacts by role rank descending, then case-insensitive name
// ascending. Role-bearing contacts always precede role-less ones.
func (c *ChatContact) Less(other *ChatContact) bool {
	if c.role.Rank() != other.role.Rank() {
		return c.role.Rank() > other.role.Rank()
	}
	return strings.ToLower(c.name) < strings.ToLower(other.name)
}

// MemberModel keeps the member list of one session in sort order.
// Insertion scans linearly; member lists are tens of entries, no index
// structure is warranted. Not goroutine-safe: confined to the dispatcher.
type MemberModel struct {
	contacts []*ChatContact
}

func NewMemberModel() *MemberModel {
	return &MemberModel{}
}

// Add inserts the contact in sort position and returns it, or returns the
// contact already wrapping the member. A member may be reported twice when
// the full member list is replayed.
func (m *MemberModel) Add(c *ChatContact) (*ChatContact, bool) {
	if existing := m.Find(c.descriptor); existing != nil {
		return existing, false
	}
	at := len(m.contacts)
	for i, other := range m.contacts {
		if c.Less(other) {
			at = i
			break
		}
	}
	m.contacts = append(m.contacts, nil)
	copy(m.contacts[at+1:], m.contacts[at:])
	m.contacts[at] = c
	return c, true
}

// Remove drops the contact wrapping the member and returns it, nil when
// the member was never present.
func (m *MemberModel) Remove(member protocol.Member) *ChatContact {
	c := m.Find(member)
	if c == nil {
		return nil
	}
	m.contacts = lo.Without(m.contacts, c)
	return c
}

func (m *MemberModel) Find(member protocol.Member) *ChatContact {
	c, _ := lo.Find(m.contacts, func(c *ChatContact) bool { return c.Matches(member) })
	return c
}

// Rename updates a contact's name and re-sorts it into position.
func (m *MemberModel) Rename(member protocol.Member, name string) *ChatContact {
	c := m.Remove(member)
	if c == nil {
		return nil
	}
	c.Rename(name)
	m.Add(c)
	return c
}

// Contacts returns the contacts in sort order.
func (m *MemberModel) Contacts() []*ChatContact {
	out := make([]*ChatContact, len(m.contacts))
	copy(out, m.contacts)
	return out
}

func (m *MemberModel) Len() int { return len(m.contacts) }

// Clear empties the model, used when a fresh live room replaces the member
// snapshot.
func (m *MemberModel) Clear() { m.contacts = nil }
