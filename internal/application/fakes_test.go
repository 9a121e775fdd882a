package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/internal/domain/repository"
)

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*entity.User
	access *fakeAccessRepo
}

type fakeAccessRepo struct {
	roles     map[int64]entity.Role
	perms     map[int64]entity.Permission
	userRoles map[int64][]int64
	userPerms map[int64][]int64
}

func newFakes() (*fakeUserRepo, *fakeAccessRepo) {
	access := &fakeAccessRepo{
		roles:     map[int64]entity.Role{},
		perms:     map[int64]entity.Permission{},
		userRoles: map[int64][]int64{},
		userPerms: map[int64][]int64{},
	}
	users := &fakeUserRepo{users: map[int64]*entity.User{}, access: access}
	return users, access
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range f.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	delete(f.access.userRoles, id)
	delete(f.access.userPerms, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, flt repository.ListUsersFilter) ([]entity.User, int64, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	matched := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		u := f.users[id]
		if flt.Search != "" {
			s := strings.ToLower(flt.Search)
			if !strings.Contains(strings.ToLower(u.Name), s) && !strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		if flt.RoleSlug != "" && !f.access.hasRoleSlug(id, flt.RoleSlug) {
			continue
		}
		matched = append(matched, *u)
	}

	total := int64(len(matched))
	if flt.Offset >= len(matched) {
		return []entity.User{}, total, nil
	}
	end := flt.Offset + flt.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[flt.Offset:end], total, nil
}

func (f *fakeAccessRepo) addRole(r entity.Role) { f.roles[r.ID] = r }

func (f *fakeAccessRepo) addPermission(p entity.Permission) { f.perms[p.ID] = p }

func (f *fakeAccessRepo) hasRoleSlug(userID int64, slug string) bool {
	for _, rid := range f.userRoles[userID] {
		if f.roles[rid].Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeAccessRepo) GetRole(_ context.Context, id int64) (*entity.Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeAccessRepo) ListRoles(_ context.Context) ([]entity.Role, error) {
	out := make([]entity.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAccessRepo) ListPermissions(_ context.Context) ([]entity.Permission, error) {
	out := make([]entity.Permission, 0, len(f.perms))
	for _, p := range f.perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAccessRepo) PrimaryRole(_ context.Context, userID int64) (*entity.Role, error) {
	rids := f.userRoles[userID]
	if len(rids) == 0 {
		return nil, repository.ErrNotFound
	}
	r := f.roles[rids[0]]
	return &r, nil
}

func (f *fakeAccessRepo) UserPermissions(_ context.Context, userID int64) ([]entity.PermissionGrant, error) {
	out := make([]entity.PermissionGrant, 0, len(f.userPerms[userID]))
	for _, pid := range f.userPerms[userID] {
		out = append(out, entity.PermissionGrant{ID: pid, Slug: f.perms[pid].Slug})
	}
	return out, nil
}

func (f *fakeAccessRepo) CountUserRoles(_ context.Context, userID int64) (int64, error) {
	return int64(len(f.userRoles[userID])), nil
}

func (f *fakeAccessRepo) AssignRole(_ context.Context, userID, roleID int64) error {
	for _, rid := range f.userRoles[userID] {
		if rid == roleID {
			return nil
		}
	}
	f.userRoles[userID] = append(f.userRoles[userID], roleID)
	return nil
}

func (f *fakeAccessRepo) ReplaceRole(_ context.Context, userID, roleID int64) error {
	f.userRoles[userID] = []int64{roleID}
	return nil
}

func (f *fakeAccessRepo) AddPermissions(_ context.Context, userID int64, permissionIDs []int64) error {
	for _, pid := range permissionIDs {
		dup := false
		for _, have := range f.userPerms[userID] {
			if have == pid {
				dup = true
				break
			}
		}
		if !dup {
			f.userPerms[userID] = append(f.userPerms[userID], pid)
		}
	}
	return nil
}

func (f *fakeAccessRepo) ReplacePermissions(ctx context.Context, userID int64, permissionIDs []int64) error {
	f.userPerms[userID] = nil
	return f.AddPermissions(ctx, userID, permissionIDs)
}
