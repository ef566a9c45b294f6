package domain

// MemberRole is the privilege level of a conference room member. Ad-hoc
// participants carry RoleNone.
type MemberRole int

const (
	RoleNone MemberRole = iota
	RoleSilent
	RoleGuest
	RoleMember
	RoleModerator
	RoleAdmin
	RoleOwner
)

// Rank orders roles by descending privilege for member-list sorting. A
// higher rank sorts first; RoleNone always sorts after any real role.
func (r MemberRole) Rank() int { return int(r) }

// HasRole reports whether the role is a real conference role.
func (r MemberRole) HasRole() bool { return r != RoleNone }

func (r MemberRole) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleMember:
		return "member"
	case RoleGuest:
		return "guest"
	case RoleSilent:
		return "silent"
	default:
		return "none"
	}
}
