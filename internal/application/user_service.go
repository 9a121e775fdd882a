package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/internal/domain/repository"
	"github.com/robyajo/api-conatct/pkg/helpers"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
	ErrEmailTaken   = errors.New("email already used")
)

// UserAdminService implements the administration operations on users:
// list/search, detail, form options, create, update, delete, avatar upload.
type UserAdminService struct {
	Users        repository.UserRepository
	Access       repository.AccessRepository
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	Events       *helpers.RabbitPublisher
	Logger       *logrus.Logger
	BaseURL      string
}

func NewUserAdminService(users repository.UserRepository, access repository.AccessRepository, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esUsersIndex string, events *helpers.RabbitPublisher, logger *logrus.Logger, baseURL string) *UserAdminService {
	return &UserAdminService{
		Users:        users,
		Access:       access,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Events:       events,
		Logger:       logger,
		BaseURL:      baseURL,
	}
}

type ListUsersInput struct {
	Search  string
	Role    string
	Page    int
	PerPage int
}

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type UserSummary struct {
	ID              int64                    `json:"id"`
	UUID            string                   `json:"uuid"`
	Name            string                   `json:"name"`
	Email           string                   `json:"email"`
	Avatar          string                   `json:"avatar,omitempty"`
	EmailVerifiedAt *time.Time               `json:"email_verified_at"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Role            string                   `json:"role"`
	RoleName        string                   `json:"role_name"`
	Permissions     []entity.PermissionGrant `json:"permissions"`
}

type UserDetail struct {
	UserSummary
	AvatarURL string `json:"avatar_url,omitempty"`
	RoleID    *int64 `json:"role_id"`
}

type FormOptions struct {
	Roles       []RoleOption       `json:"roles"`
	Permissions []PermissionOption `json:"permissions"`
}

type RoleOption struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type PermissionOption struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type CreateUserInput struct {
	Email         string
	Name          string
	Password      string
	RoleID        int64
	PermissionIDs []int64
}

// UpdateUserInput carries partial-update fields. Empty strings mean "leave
// unchanged". PermissionIDs distinguishes absent (nil, leave untouched) from
// present (replace the whole set, empty slice clears it).
type UpdateUserInput struct {
	Email         string
	Name          string
	Password      string
	RoleID        int64
	PermissionIDs *[]int64
}

// MutateResult is the response shape of admin create/update.
type MutateResult struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func normalizePage(in *ListUsersInput) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PerPage <= 0 {
		in.PerPage = 10
	}
	if in.PerPage > 100 {
		in.PerPage = 100
	}
}

// List returns one page of users ordered by ascending id, each with its
// resolved role and direct permissions.
func (s *UserAdminService) List(ctx context.Context, in ListUsersInput) ([]UserSummary, PageMeta, error) {
	normalizePage(&in)

	users, total, err := s.Users.List(ctx, repository.ListUsersFilter{
		Search:   strings.TrimSpace(in.Search),
		RoleSlug: strings.TrimSpace(in.Role),
		Offset:   (in.Page - 1) * in.PerPage,
		Limit:    in.PerPage,
	})
	if err != nil {
		return nil, PageMeta{}, err
	}

	items := make([]UserSummary, 0, len(users))
	for i := range users {
		view, err := resolveAccess(ctx, s.Access, users[i].ID)
		if err != nil {
			return nil, PageMeta{}, err
		}
		items = append(items, summarize(&users[i], view))
	}

	meta := PageMeta{Page: in.Page, PerPage: in.PerPage, Total: total}
	meta.TotalPages = int((total + int64(in.PerPage) - 1) / int64(in.PerPage))
	return items, meta, nil
}

// GetByID returns the full detail for one user including the resolved
// avatar URL and role id.
func (s *UserAdminService) GetByID(ctx context.Context, id int64) (*UserDetail, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	view, err := resolveAccess(ctx, s.Access, u.ID)
	if err != nil {
		return nil, err
	}

	d := &UserDetail{UserSummary: summarize(u, view)}
	if view.RoleID != 0 {
		roleID := view.RoleID
		d.RoleID = &roleID
	}
	if u.Avatar != "" {
		d.AvatarURL = s.AvatarURL(u.Avatar)
	}
	return d, nil
}

// AvatarURL builds the externally served avatar link from the stored file name.
func (s *UserAdminService) AvatarURL(file string) string {
	return s.BaseURL + "/api/users/avatar/" + file
}

// FormOptions returns every role and permission for admin UI pickers.
// Reference sets are small, so no pagination.
func (s *UserAdminService) FormOptions(ctx context.Context) (*FormOptions, error) {
	roles, err := s.Access.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	perms, err := s.Access.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	out := &FormOptions{
		Roles:       make([]RoleOption, 0, len(roles)),
		Permissions: make([]PermissionOption, 0, len(perms)),
	}
	for _, r := range roles {
		out.Roles = append(out.Roles, RoleOption{ID: r.ID, Name: r.Name, Slug: r.Slug, Description: r.Description})
	}
	for _, p := range perms {
		out.Permissions = append(out.Permissions, PermissionOption{ID: p.ID, Name: p.Name, Slug: p.Slug, Description: p.Description})
	}
	return out, nil
}

// Create creates a user on behalf of an administrator, optionally assigning
// one role and a set of direct permissions.
func (s *UserAdminService) Create(ctx context.Context, in CreateUserInput) (*MutateResult, error) {
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	roleSlug := DefaultRoleSlug
	var role *entity.Role
	if in.RoleID != 0 {
		r, err := s.Access.GetRole(ctx, in.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
		role = r
		roleSlug = r.Slug
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		UUID:     uuid.NewString(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// The unique constraint is the authoritative guard; the pre-read
		// above only gives a friendlier fast path.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if role != nil {
		if err := s.Access.AssignRole(ctx, u.ID, role.ID); err != nil {
			return nil, err
		}
		if err := s.ensureSingleRole(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	if len(in.PermissionIDs) > 0 {
		if err := s.Access.AddPermissions(ctx, u.ID, in.PermissionIDs); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, "user.created", u)
	s.indexUser(ctx, u)
	return &MutateResult{ID: u.ID, Email: u.Email, Name: u.Name, Role: roleSlug}, nil
}

// Update applies a partial admin update: only non-empty scalar fields change,
// a supplied role replaces the whole role set, and a present permission id
// list replaces the whole direct permission set.
func (s *UserAdminService) Update(ctx context.Context, id int64, in UpdateUserInput) (*MutateResult, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.Email != "" && in.Email != u.Email {
		if other, err := s.Users.GetByEmail(ctx, in.Email); err == nil && other.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		u.Email = in.Email
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}

	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	roleSlug := DefaultRoleSlug
	if in.RoleID != 0 {
		role, err := s.Access.GetRole(ctx, in.RoleID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, err
		}
		if err := s.Access.ReplaceRole(ctx, id, role.ID); err != nil {
			return nil, err
		}
		if err := s.ensureSingleRole(ctx, id); err != nil {
			return nil, err
		}
		roleSlug = role.Slug
	} else {
		role, err := s.Access.PrimaryRole(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if role != nil {
			roleSlug = role.Slug
		}
	}

	if in.PermissionIDs != nil {
		if err := s.Access.ReplacePermissions(ctx, id, *in.PermissionIDs); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, "user.updated", u)
	s.indexUser(ctx, u)
	return &MutateResult{ID: u.ID, Email: u.Email, Name: u.Name, Role: roleSlug}, nil
}

// Delete removes the user row. Role, permission and profile associations go
// with it via the store's cascade rules.
func (s *UserAdminService) Delete(ctx context.Context, id int64) error {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.publishEvent(ctx, "user.deleted", u)
	s.removeUserDoc(ctx, u.ID)
	return nil
}

// UploadAvatar stores the uploaded image in GCS and records the generated
// file name on the user.
func (s *UserAdminService) UploadAvatar(ctx context.Context, id int64, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("object storage not configured")
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	file := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	object := "avatars/" + file
	if err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, object, contentType, r); err != nil {
		return "", err
	}

	u.Avatar = file
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	s.indexUser(ctx, u)
	return s.AvatarURL(file), nil
}

// AvatarObjectURL resolves the stored file name to its public object URL.
func (s *UserAdminService) AvatarObjectURL(file string) string {
	return helpers.PublicURL(s.GCSBucket, "avatars/"+file)
}

// ensureSingleRole asserts the single-primary-role invariant after a role
// mutation instead of relying on the delete-then-insert ordering alone.
func (s *UserAdminService) ensureSingleRole(ctx context.Context, userID int64) error {
	n, err := s.Access.CountUserRoles(ctx, userID)
	if err != nil {
		return err
	}
	if n > 1 {
		return fmt.Errorf("user %d has %d role rows, want at most 1", userID, n)
	}
	return nil
}

func summarize(u *entity.User, view AccessView) UserSummary {
	return UserSummary{
		ID:              u.ID,
		UUID:            u.UUID,
		Name:            u.Name,
		Email:           u.Email,
		Avatar:          u.Avatar,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		Role:            view.Role,
		RoleName:        view.RoleName,
		Permissions:     view.Permissions,
	}
}
