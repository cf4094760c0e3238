// Administrasi Akademik - Academic Portal Content API
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

// Role is a position in the administrative role hierarchy.
// The hierarchy is a strict total order: admin < super_admin.
type Role string

const (
	// RoleAdmin can manage portal content (news, pages).
	RoleAdmin Role = "admin"

	// RoleSuperAdmin can additionally manage master data
	// (lecturers, courses, programs, schedules).
	RoleSuperAdmin Role = "super_admin"
)

// roleRanks orders roles for comparison. Unknown roles rank below every
// valid role.
var roleRanks = map[Role]int{
	RoleAdmin:      1,
	RoleSuperAdmin: 2,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// AtLeast reports whether r ranks at or above required.
func (r Role) AtLeast(required Role) bool {
	return roleRanks[r] >= roleRanks[required]
}
