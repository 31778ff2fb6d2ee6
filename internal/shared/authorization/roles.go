// Package authorization holds the two platform roles carried in access
// tokens and the owner scoping derived from them.
package authorization

import "github.com/memberhub/memberhub/internal/shared/constants"

// UserRole doubles as the casbin subject for policy checks.
type UserRole string

const (
	RoleAdmin  UserRole = constants.RoleAdmin
	RoleMember UserRole = constants.RoleMember
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// ParseUserRole treats an unknown or missing claim as the least privileged
// role rather than rejecting the token.
func ParseUserRole(s string) UserRole {
	switch UserRole(s) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleMember
	}
}
