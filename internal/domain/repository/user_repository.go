package repository

import (
	"context"
	"errors"

	"github.com/robyajo/api-conatct/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a write violates the users.email
	// unique constraint. Mapping the constraint violation (instead of a
	// check-then-act pre-read) closes the race window between concurrent writes.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// ListUsersFilter narrows and pages the user list.
// Search matches name OR email case-insensitively as a substring.
// RoleSlug keeps only users with at least one user_roles row whose role has that slug.
type ListUsersFilter struct {
	Search   string
	RoleSlug string
	Offset   int
	Limit    int
}

// UserRepository defines user-row database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
	// List returns one page ordered by id ascending plus the total count
	// for the same filters.
	List(ctx context.Context, f ListUsersFilter) ([]entity.User, int64, error)
}

// AccessRepository covers roles, permissions and their user assignments.
type AccessRepository interface {
	GetRole(ctx context.Context, id int64) (*entity.Role, error)
	ListRoles(ctx context.Context) ([]entity.Role, error)
	ListPermissions(ctx context.Context) ([]entity.Permission, error)

	// PrimaryRole returns the role of the user's first user_roles row,
	// or ErrNotFound when the user has no role assigned.
	PrimaryRole(ctx context.Context, userID int64) (*entity.Role, error)
	UserPermissions(ctx context.Context, userID int64) ([]entity.PermissionGrant, error)
	CountUserRoles(ctx context.Context, userID int64) (int64, error)

	// AssignRole inserts a single user_roles row, skipping duplicates.
	AssignRole(ctx context.Context, userID, roleID int64) error
	// ReplaceRole removes every user_roles row for the user and inserts
	// exactly one, enforcing the single-primary-role policy.
	ReplaceRole(ctx context.Context, userID, roleID int64) error

	// AddPermissions bulk-inserts user_permissions rows, skipping any that
	// would violate the (user_id, permission_id) uniqueness constraint.
	AddPermissions(ctx context.Context, userID int64, permissionIDs []int64) error
	// ReplacePermissions removes the user's entire direct permission set and
	// inserts the given ids (duplicate-safe). An empty slice clears the set.
	ReplacePermissions(ctx context.Context, userID int64, permissionIDs []int64) error
}
