// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can vet submissions, rate items and curate tags
	RoleModerator UserRole = "moderator"

	// Default role for standard registered users
	RoleMember UserRole = "member"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsElevated reports whether the role may moderate content regardless of ownership.
func (r UserRole) IsElevated() bool {
	return r.AtLeast(RoleModerator)
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleModerator:
		return 30
	case RoleMember:
		return 10
	default:
		return 0
	}
}

// # Actors

// Actor is the opaque identity performing a catalog mutation.
// It is supplied by the bot or web layer; identity management lives elsewhere.
type Actor struct {
	ID   string
	Role UserRole
}

// IsElevated reports whether the actor holds a moderator or administrator role.
func (a Actor) IsElevated() bool {
	return a.Role.IsElevated()
}
