package domain

import "errors"

const MaxDisplayNameLen = 64

var (
	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)

// Account is the local-user identity of one provider connection.
type Account struct {
	Provider    ProviderID
	Address     string
	DisplayName string
}

// NewAccount is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewAccount(provider ProviderID, address, displayName string) (*Account, error) {
	if displayName == "" {
		return nil, ErrDisplayNameEmpty
	}
	if len(displayName) > MaxDisplayNameLen {
		return nil, ErrDisplayNameTooLong
	}
	return &Account{Provider: provider, Address: address, DisplayName: displayName}, nil
}

// BareName strips the host part of an address, used as the default nickname
// when no display name is configured.
func (a *Account) BareName() string {
	name := a.DisplayName
	if name == "" {
		name = a.Address
	}
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == '@' {
			return name[:i]
		}
	}
	return name
}
