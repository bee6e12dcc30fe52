package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHierarchy(t *testing.T) {
	assert.True(t, HasMinRole(RoleModerator, RoleModerator))
	assert.True(t, HasMinRole(RoleAdmin, RoleModerator))
	assert.True(t, HasMinRole(RoleSuperAdmin, RoleAdmin))
	assert.False(t, HasMinRole(RoleUser, RoleModerator))
	assert.False(t, HasMinRole(RoleModerator, RoleAdmin))
	assert.False(t, HasMinRole(Role("intern"), RoleUser))
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, HasPermission(RoleModerator, PermReportsProcess))
	assert.True(t, HasPermission(RoleModerator, PermUsersSuspend))
	assert.False(t, HasPermission(RoleModerator, PermUsersBan))
	assert.False(t, HasPermission(RoleModerator, PermConfigWrite))

	assert.True(t, HasPermission(RoleAdmin, PermUsersBan))
	assert.True(t, HasPermission(RoleAdmin, PermAuditView))
	assert.False(t, HasPermission(RoleAdmin, PermConfigWrite))

	assert.True(t, HasPermission(RoleSuperAdmin, PermConfigWrite))

	assert.False(t, HasPermission(RoleUser, PermReportsView))
	assert.False(t, HasPermission(Role("unknown"), PermReportsView))
}
