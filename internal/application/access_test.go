package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robyajo/api-conatct/internal/domain/entity"
)

func TestResolveAccessFallback(t *testing.T) {
	v := ResolveAccess(nil, nil)
	assert.Zero(t, v.RoleID)
	assert.Equal(t, "user", v.Role)
	assert.Equal(t, "User", v.RoleName)
	assert.NotNil(t, v.Permissions)
	assert.Len(t, v.Permissions, 0)
}

func TestResolveAccessWithRole(t *testing.T) {
	role := &entity.Role{ID: 7, Name: "Super Admin", Slug: "super_admin"}
	grants := []entity.PermissionGrant{{ID: 1, Slug: "users.view"}}

	v := ResolveAccess(role, grants)
	assert.Equal(t, int64(7), v.RoleID)
	assert.Equal(t, "super_admin", v.Role)
	assert.Equal(t, "Super Admin", v.RoleName)
	assert.Equal(t, grants, v.Permissions)
}
