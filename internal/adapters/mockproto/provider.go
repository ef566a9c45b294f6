package mockproto

import (
	"sync/atomic"

	"github.com/dkeye/Conclave/internal/domain"
	"github.com/dkeye/Conclave/internal/protocol"
)

// Provider implements protocol.Provider. Capabilities are opt-out: a fresh
// provider carries both conference and ad-hoc operation sets.
type Provider struct {
	id         domain.ProviderID
	account    *domain.Account
	registered atomic.Bool

	muc   *MultiUserChat
	adhoc *AdHocMultiUserChat
}

func NewProvider(id domain.ProviderID, account *domain.Account) *Provider {
	p := &Provider{id: id, account: account}
	p.muc = newMultiUserChat(p)
	p.adhoc = newAdHocMultiUserChat(p)
	return p
}

func (p *Provider) ID() domain.ProviderID   { return p.id }
func (p *Provider) Account() *domain.Account { return p.account }
func (p *Provider) IsRegistered() bool      { return p.registered.Load() }

func (p *Provider) setRegistered(v bool) { p.registered.Store(v) }

func (p *Provider) MultiUserChat() protocol.MultiUserChat {
	if p.muc == nil {
		return nil
	}
	return p.muc
}

func (p *Provider) AdHocMultiUserChat() protocol.AdHocMultiUserChat {
	if p.adhoc == nil {
		return nil
	}
	return p.adhoc
}

// Muc exposes the concrete conference operation set for scripting.
func (p *Provider) Muc() *MultiUserChat { return p.muc }

// AdHoc exposes the concrete ad-hoc operation set for scripting.
func (p *Provider) AdHoc() *AdHocMultiUserChat { return p.adhoc }

// DisableMuc drops the conference capability.
func (p *Provider) DisableMuc() { p.muc = nil }

// DisableAdHoc drops the ad-hoc capability.
func (p *Provider) DisableAdHoc() { p.adhoc = nil }

// Member implements protocol.Member.
type Member struct {
	address string
	name    string
	role    domain.MemberRole
	avatar  []byte
}

func NewMember(address, name string, role domain.MemberRole) *Member {
	return &Member{address: address, name: name, role: role}
}

func (m *Member) Address() string          { return m.address }
func (m *Member) Name() string             { return m.name }
func (m *Member) Role() domain.MemberRole  { return m.role }
func (m *Member) Avatar() []byte           { return m.avatar }

// SetName changes the display name; pair with Room.SimulateRename to
// propagate the change.
func (m *Member) SetName(name string) { m.name = name }
