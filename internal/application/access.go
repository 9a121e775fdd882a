package application

import (
	"context"
	"errors"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/internal/domain/repository"
)

// Fallback identity when a user has no user_roles row. This is a computed
// default, not a stored row.
const (
	DefaultRoleSlug = "user"
	DefaultRoleName = "User"
)

// AccessView is the resolved authorization shape returned with every user:
// the primary role (first user_roles row) and the directly-granted
// permissions. Role-derived permissions are deliberately not merged in;
// they gate routes, not this per-user view.
type AccessView struct {
	RoleID      int64
	Role        string
	RoleName    string
	Permissions []entity.PermissionGrant
}

// ResolveAccess builds the external view from resolved rows. A nil role
// yields the "user"/"User" fallback with RoleID zero.
func ResolveAccess(role *entity.Role, grants []entity.PermissionGrant) AccessView {
	v := AccessView{
		Role:        DefaultRoleSlug,
		RoleName:    DefaultRoleName,
		Permissions: grants,
	}
	if v.Permissions == nil {
		v.Permissions = []entity.PermissionGrant{}
	}
	if role != nil {
		v.RoleID = role.ID
		v.Role = role.Slug
		v.RoleName = role.Name
	}
	return v
}

// resolveAccess loads the primary role and direct permissions for one user.
func resolveAccess(ctx context.Context, access repository.AccessRepository, userID int64) (AccessView, error) {
	role, err := access.PrimaryRole(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return AccessView{}, err
	}
	grants, err := access.UserPermissions(ctx, userID)
	if err != nil {
		return AccessView{}, err
	}
	return ResolveAccess(role, grants), nil
}
