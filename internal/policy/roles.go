package policy

// Role is the staff role hierarchy, ordered by level.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Permission is a named capability granted to a role.
type Permission string

const (
	PermReportsView    Permission = "reports:view"
	PermReportsProcess Permission = "reports:process"
	PermUsersWarn      Permission = "users:warn"
	PermUsersSuspend   Permission = "users:suspend"
	PermUsersBan       Permission = "users:ban"
	PermUsersUnban     Permission = "users:unban"
	PermUsersSurveil   Permission = "users:surveil"
	PermAuditView      Permission = "audit:view"
	PermDashboardView  Permission = "dashboard:view"
	PermConfigWrite    Permission = "config:write"
)

// Explicit numeric levels; comparisons are plain integer checks.
var roleLevels = map[Role]int{
	RoleUser:       0,
	RoleModerator:  1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Explicit role -> capability map. Higher roles repeat the lower ones
// rather than inheriting at runtime.
var rolePermissions = map[Role]map[Permission]bool{
	RoleUser: {},
	RoleModerator: {
		PermReportsView:    true,
		PermReportsProcess: true,
		PermUsersWarn:      true,
		PermUsersSuspend:   true,
		PermUsersSurveil:   true,
		PermDashboardView:  true,
	},
	RoleAdmin: {
		PermReportsView:    true,
		PermReportsProcess: true,
		PermUsersWarn:      true,
		PermUsersSuspend:   true,
		PermUsersBan:       true,
		PermUsersUnban:     true,
		PermUsersSurveil:   true,
		PermAuditView:      true,
		PermDashboardView:  true,
	},
	RoleSuperAdmin: {
		PermReportsView:    true,
		PermReportsProcess: true,
		PermUsersWarn:      true,
		PermUsersSuspend:   true,
		PermUsersBan:       true,
		PermUsersUnban:     true,
		PermUsersSurveil:   true,
		PermAuditView:      true,
		PermDashboardView:  true,
		PermConfigWrite:    true,
	},
}

// Level returns the numeric level for a role. Unknown roles rank below user.
func Level(r Role) int {
	if l, ok := roleLevels[r]; ok {
		return l
	}
	return -1
}

// HasMinRole reports whether r ranks at or above min.
func HasMinRole(r, min Role) bool {
	return Level(r) >= Level(min)
}

// HasPermission reports whether the role carries the named capability.
func HasPermission(r Role, p Permission) bool {
	return rolePermissions[r][p]
}
