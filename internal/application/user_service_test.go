package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/pkg/helpers"
)

func newTestService() (*UserAdminService, *fakeUserRepo, *fakeAccessRepo) {
	users, access := newFakes()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := NewUserAdminService(users, access, nil, "", nil, "", nil, logger, "http://localhost:8080")
	return svc, users, access
}

func seedCatalog(access *fakeAccessRepo) {
	access.addRole(entity.Role{ID: 1, Name: "Super Admin", Slug: "super_admin"})
	access.addRole(entity.Role{ID: 2, Name: "Admin", Slug: "admin"})
	access.addRole(entity.Role{ID: 3, Name: "User", Slug: "user"})
	access.addPermission(entity.Permission{ID: 1, Name: "View Users", Slug: "users.view"})
	access.addPermission(entity.Permission{ID: 2, Name: "Create Users", Slug: "users.create"})
	access.addPermission(entity.Permission{ID: 3, Name: "View Posts", Slug: "posts.view"})
}

func TestCreateAssignsRoleAndPermissions(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{
		Email:         "budi@example.id",
		Name:          "Budi",
		Password:      "secret",
		RoleID:        2,
		PermissionIDs: []int64{1, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.Role)
	assert.NotZero(t, res.ID)

	d, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", d.Role)
	assert.Equal(t, "Admin", d.RoleName)
	require.NotNil(t, d.RoleID)
	assert.Equal(t, int64(2), *d.RoleID)
	require.Len(t, d.Permissions, 2)
	assert.Equal(t, "users.view", d.Permissions[0].Slug)
	assert.Equal(t, "posts.view", d.Permissions[1].Slug)
	assert.NotEmpty(t, d.UUID)
}

func TestCreateWithoutRoleFallsBack(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{Email: "siti@example.id", Name: "Siti", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "user", res.Role)

	d, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", d.Role)
	assert.Equal(t, "User", d.RoleName)
	assert.Nil(t, d.RoleID)
	assert.NotNil(t, d.Permissions)
	assert.Len(t, d.Permissions, 0)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Email: "dup@example.id", Name: "A", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateUserInput{Email: "dup@example.id", Name: "B", Password: "y"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUnknownRole(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)

	_, err := svc.Create(context.Background(), CreateUserInput{Email: "x@example.id", Name: "X", Password: "p", RoleID: 99})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestListPagingAndOrdering(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	for _, in := range []CreateUserInput{
		{Email: "a@example.id", Name: "Alpha", Password: "p", RoleID: 2},
		{Email: "b@example.id", Name: "Beta", Password: "p", RoleID: 3},
		{Email: "c@example.id", Name: "Gamma", Password: "p"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	items, meta, err := svc.List(ctx, ListUsersInput{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	require.Len(t, items, 2)
	assert.Equal(t, "a@example.id", items[0].Email)
	assert.Equal(t, "admin", items[0].Role)
	assert.Equal(t, "b@example.id", items[1].Email)

	items, meta, err = svc.List(ctx, ListUsersInput{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Gamma", items[0].Name)
	assert.Equal(t, "user", items[0].Role)
	assert.Equal(t, 2, meta.Page)
}

func TestListFilters(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Email: "admin@example.id", Name: "Ani", Password: "p", RoleID: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{Email: "plain@example.id", Name: "Plain", Password: "p", RoleID: 3})
	require.NoError(t, err)

	items, _, err := svc.List(ctx, ListUsersInput{Search: "ani"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ani", items[0].Name)

	items, _, err = svc.List(ctx, ListUsersInput{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "admin@example.id", items[0].Email)
}

func TestUpdatePartialFields(t *testing.T) {
	svc, users, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{Email: "old@example.id", Name: "Old Name", Password: "oldpass", RoleID: 3})
	require.NoError(t, err)

	before, err := users.GetByID(ctx, res.ID)
	require.NoError(t, err)

	out, err := svc.Update(ctx, res.ID, UpdateUserInput{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", out.Name)
	assert.Equal(t, "old@example.id", out.Email)
	assert.Equal(t, "user", out.Role)

	after, err := users.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)

	_, err = svc.Update(ctx, res.ID, UpdateUserInput{Password: "newpass"})
	require.NoError(t, err)
	after, err = users.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.Password, after.Password)
	assert.True(t, helpers.CompareHashAndPassword(after.Password, "newpass"))
}

func TestUpdateEmailConflict(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Email: "first@example.id", Name: "First", Password: "p"})
	require.NoError(t, err)
	res, err := svc.Create(ctx, CreateUserInput{Email: "second@example.id", Name: "Second", Password: "p"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, res.ID, UpdateUserInput{Email: "first@example.id"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Re-submitting the same email is not a conflict
	_, err = svc.Update(ctx, res.ID, UpdateUserInput{Email: "second@example.id"})
	assert.NoError(t, err)
}

func TestUpdateReplacesRoleKeepingOneRow(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{Email: "r@example.id", Name: "R", Password: "p", RoleID: 3})
	require.NoError(t, err)

	out, err := svc.Update(ctx, res.ID, UpdateUserInput{RoleID: 1})
	require.NoError(t, err)
	assert.Equal(t, "super_admin", out.Role)

	n, err := access.CountUserRoles(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdatePermissionPresenceVsAbsence(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{Email: "p@example.id", Name: "P", Password: "p", PermissionIDs: []int64{1, 2}})
	require.NoError(t, err)

	// Absent list leaves permissions untouched
	_, err = svc.Update(ctx, res.ID, UpdateUserInput{Name: "Renamed"})
	require.NoError(t, err)
	d, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Len(t, d.Permissions, 2)

	// Present list replaces the whole set
	newSet := []int64{3}
	_, err = svc.Update(ctx, res.ID, UpdateUserInput{PermissionIDs: &newSet})
	require.NoError(t, err)
	d, err = svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, d.Permissions, 1)
	assert.Equal(t, "posts.view", d.Permissions[0].Slug)

	// Present empty list clears it
	empty := []int64{}
	_, err = svc.Update(ctx, res.ID, UpdateUserInput{PermissionIDs: &empty})
	require.NoError(t, err)
	d, err = svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Len(t, d.Permissions, 0)
}

func TestUpdateUnknownUserAndRole(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	_, err := svc.Update(ctx, 42, UpdateUserInput{Name: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	res, err := svc.Create(ctx, CreateUserInput{Email: "u@example.id", Name: "U", Password: "p"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, res.ID, UpdateUserInput{RoleID: 99})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{Email: "gone@example.id", Name: "Gone", Password: "p", RoleID: 3, PermissionIDs: []int64{1}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, res.ID))
	_, err = svc.GetByID(ctx, res.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	n, err := access.CountUserRoles(ctx, res.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, svc.Delete(ctx, res.ID), ErrUserNotFound)
}

func TestGetByIDAvatarURL(t *testing.T) {
	svc, users, access := newTestService()
	seedCatalog(access)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateUserInput{Email: "ava@example.id", Name: "Ava", Password: "p"})
	require.NoError(t, err)

	d, err := svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, d.AvatarURL)

	u, err := users.GetByID(ctx, res.ID)
	require.NoError(t, err)
	u.Avatar = "abc.png"
	require.NoError(t, users.Update(ctx, u))

	d, err = svc.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/users/avatar/abc.png", d.AvatarURL)
}

func TestFormOptionsOrdered(t *testing.T) {
	svc, _, access := newTestService()
	seedCatalog(access)

	opts, err := svc.FormOptions(context.Background())
	require.NoError(t, err)
	require.Len(t, opts.Roles, 3)
	assert.Equal(t, "super_admin", opts.Roles[0].Slug)
	assert.Equal(t, "user", opts.Roles[2].Slug)
	require.Len(t, opts.Permissions, 3)
	assert.Equal(t, int64(1), opts.Permissions[0].ID)
}

func TestNormalizePage(t *testing.T) {
	in := ListUsersInput{Page: 0, PerPage: 0}
	normalizePage(&in)
	assert.Equal(t, 1, in.Page)
	assert.Equal(t, 10, in.PerPage)

	in = ListUsersInput{Page: 2, PerPage: 500}
	normalizePage(&in)
	assert.Equal(t, 100, in.PerPage)
}
