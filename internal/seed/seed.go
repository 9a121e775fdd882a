package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/robyajo/api-conatct/pkg/helpers"
)

// Store is the persistence boundary of the seeder. Every upsert is
// first-write-wins: when the row already exists its id is returned and
// nothing else is changed, so repeated runs leave the data untouched.
type Store interface {
	UpsertUser(ctx context.Context, uid, name, email, passwordHash string) (int64, error)
	UpsertRole(ctx context.Context, name, slug, description string) (int64, error)
	UpsertPermission(ctx context.Context, name, slug, description string) (int64, error)
	UpsertRolePermission(ctx context.Context, roleID, permissionID int64) error
	UpsertUserRole(ctx context.Context, userID, roleID int64) error
	UpsertProfile(ctx context.Context, p Profile) error
	ResetSequences(ctx context.Context) error
}

type RoleData struct {
	Name        string
	Slug        string
	Description string
}

type PermissionData struct {
	Name        string
	Slug        string
	Description string
}

// Profile is a synthetic profile row keyed by slug.
type Profile struct {
	UUID          string
	UserID        int64
	Name          string
	Slug          string
	Username      string
	Status        string
	Views         string
	Tags          string
	Description   string
	Gender        string
	DateOfBirth   time.Time
	MaritalStatus string
	NIK           string
	KK            string
	Phone         string
	Whatsapp      string
	Address       string
	City          string
	State         string
	Country       string
	PostalCode    string
	Website       string
	Facebook      string
	Instagram     string
	Twitter       string
	LinkedIn      string
	YouTube       string
}

var Roles = []RoleData{
	{Name: "Super Admin", Slug: "super_admin", Description: "Full access to all resources"},
	{Name: "Admin", Slug: "admin", Description: "Administrator"},
	{Name: "User", Slug: "user", Description: "Regular user"},
}

var Permissions = []PermissionData{
	{Name: "Manage Users", Slug: "users.manage", Description: "Create, update, and delete users"},
	{Name: "Create Users", Slug: "users.create", Description: "Create users"},
	{Name: "View Users", Slug: "users.view", Description: "View users"},
	{Name: "Update Users", Slug: "users.update", Description: "Update users"},
	{Name: "Delete Users", Slug: "users.delete", Description: "Delete users"},
	{Name: "Manage Roles", Slug: "roles.manage", Description: "Create, update, and delete roles"},
	{Name: "Manage Permissions", Slug: "permissions.manage", Description: "Create, update, and delete permissions"},
	{Name: "Manage Profiles", Slug: "profiles.manage", Description: "Manage user profiles"},
	{Name: "Create Posts", Slug: "posts.create", Description: "Create posts"},
	{Name: "Update Posts", Slug: "posts.update", Description: "Update posts"},
	{Name: "Delete Posts", Slug: "posts.delete", Description: "Delete posts"},
	{Name: "View Posts", Slug: "posts.view", Description: "View posts"},
	{Name: "Manage Categories", Slug: "categories.manage", Description: "Manage categories"},
	{Name: "Manage Comments", Slug: "comments.manage", Description: "Manage comments"},
}

// Grants maps a role slug to the permission slugs it carries.
var Grants = map[string][]string{
	"super_admin": {
		"users.manage", "users.create", "users.view", "users.update", "users.delete",
		"roles.manage", "permissions.manage", "profiles.manage",
		"posts.create", "posts.update", "posts.delete", "posts.view",
		"categories.manage", "comments.manage",
	},
	"admin": {
		"users.create", "users.view", "users.update",
		"roles.manage", "permissions.manage",
		"posts.create", "posts.update", "posts.delete", "posts.view",
		"categories.manage", "comments.manage",
	},
	"user": {
		"posts.view",
	},
}

type baseAccount struct {
	Name  string
	Email string
	Role  string
}

var baseAccounts = []baseAccount{
	{Name: "Super Admin", Email: "sa@sa.com", Role: "super_admin"},
	{Name: "Admin User", Email: "a@a.com", Role: "admin"},
	{Name: "Regular User", Email: "u@u.com", Role: "user"},
}

// BasePassword is the shared plaintext for every seeded account.
const BasePassword = "string"

var indoCities = []string{
	"Jakarta", "Bandung", "Surabaya", "Yogyakarta", "Semarang",
	"Medan", "Makassar", "Denpasar", "Palembang", "Bogor",
}

var indoProvinces = []string{
	"DKI Jakarta", "Jawa Barat", "Jawa Timur", "DI Yogyakarta", "Jawa Tengah",
	"Sumatera Utara", "Sulawesi Selatan", "Bali", "Sumatera Selatan", "Jawa Barat",
}

var maritalStatuses = []string{"single", "married", "married", "single"}

var genders = []string{"male", "female"}

// ProfileFor builds the deterministic synthetic profile for a 1-based index.
// UserID is filled in later, after the owning user row exists.
func ProfileFor(i int) Profile {
	name := fmt.Sprintf("Orang Indonesia %d", i)
	username := fmt.Sprintf("orang%d", i)

	dobYear := 1985 + (i-1)%15
	dobMonth := time.Month((i-1)%12 + 1)
	dobDay := (i-1)%28 + 1

	return Profile{
		Name:          name,
		Slug:          fmt.Sprintf("%s-%d", Slugify(name), i),
		Username:      username,
		Status:        "published",
		Views:         "0",
		Tags:          "indonesia,profile",
		Description:   fmt.Sprintf("Profil pengguna Indonesia nomor %d", i),
		Gender:        genders[(i-1)%len(genders)],
		DateOfBirth:   time.Date(dobYear, dobMonth, dobDay, 0, 0, 0, 0, time.UTC),
		MaritalStatus: maritalStatuses[(i-1)%len(maritalStatuses)],
		NIK:           fmt.Sprintf("3174%d", 100000000000+i),
		KK:            fmt.Sprintf("3175%d", 200000000000+i),
		Phone:         fmt.Sprintf("+62812%08d", 10000000+i),
		Whatsapp:      fmt.Sprintf("+62813%08d", 10000000+i),
		Address:       fmt.Sprintf("Jl. Contoh Nomor %d", i),
		City:          indoCities[(i-1)%len(indoCities)],
		State:         indoProvinces[(i-1)%len(indoProvinces)],
		Country:       "Indonesia",
		PostalCode:    fmt.Sprintf("%d", 10000+i),
		Website:       fmt.Sprintf("https://example.com/orang-%d", i),
		Facebook:      fmt.Sprintf("https://facebook.com/orang%d", i),
		Instagram:     fmt.Sprintf("https://instagram.com/orang%d", i),
		Twitter:       fmt.Sprintf("https://twitter.com/orang%d", i),
		LinkedIn:      fmt.Sprintf("https://linkedin.com/in/orang%d", i),
		YouTube:       fmt.Sprintf("https://youtube.com/@orang%d", i),
	}
}

// ProfileEmail returns the synthetic account email for a 1-based index.
func ProfileEmail(i int) string {
	return fmt.Sprintf("orang%d@example.id", i)
}

// Slugify lowercases and joins words with hyphens, matching the slug
// format the profiles were originally created with.
func Slugify(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "-")
}

// Seeder populates the database with baseline accounts, the role and
// permission catalog, the grant matrix and synthetic profiles. Each
// step commits independently and the whole run is idempotent.
type Seeder struct {
	Store        Store
	Logger       *logrus.Logger
	ProfileCount int
}

func New(store Store, logger *logrus.Logger, profileCount int) *Seeder {
	return &Seeder{Store: store, Logger: logger, ProfileCount: profileCount}
}

func (s *Seeder) Run(ctx context.Context) error {
	s.Logger.Info("start seeding")

	passwordHash, err := helpers.HashPassword(BasePassword)
	if err != nil {
		return fmt.Errorf("hash base password: %w", err)
	}

	roleIDs := make(map[string]int64, len(Roles))
	for _, r := range Roles {
		id, err := s.Store.UpsertRole(ctx, r.Name, r.Slug, r.Description)
		if err != nil {
			return fmt.Errorf("upsert role %s: %w", r.Slug, err)
		}
		roleIDs[r.Slug] = id
	}
	s.Logger.Info("seeded roles")

	permIDs := make(map[string]int64, len(Permissions))
	for _, p := range Permissions {
		id, err := s.Store.UpsertPermission(ctx, p.Name, p.Slug, p.Description)
		if err != nil {
			return fmt.Errorf("upsert permission %s: %w", p.Slug, err)
		}
		permIDs[p.Slug] = id
	}
	s.Logger.Info("seeded permissions")

	for _, r := range Roles {
		for _, slug := range Grants[r.Slug] {
			if err := s.Store.UpsertRolePermission(ctx, roleIDs[r.Slug], permIDs[slug]); err != nil {
				return fmt.Errorf("grant %s to %s: %w", slug, r.Slug, err)
			}
		}
	}
	s.Logger.Info("assigned permissions to roles")

	for _, a := range baseAccounts {
		userID, err := s.Store.UpsertUser(ctx, uuid.NewString(), a.Name, a.Email, passwordHash)
		if err != nil {
			return fmt.Errorf("upsert user %s: %w", a.Email, err)
		}
		if err := s.Store.UpsertUserRole(ctx, userID, roleIDs[a.Role]); err != nil {
			return fmt.Errorf("assign role %s to %s: %w", a.Role, a.Email, err)
		}
		s.Logger.Infof("seeded %s (%s)", a.Name, a.Email)
	}

	for i := 1; i <= s.ProfileCount; i++ {
		p := ProfileFor(i)
		userID, err := s.Store.UpsertUser(ctx, uuid.NewString(), p.Name, ProfileEmail(i), passwordHash)
		if err != nil {
			return fmt.Errorf("upsert profile user %d: %w", i, err)
		}
		if err := s.Store.UpsertUserRole(ctx, userID, roleIDs["user"]); err != nil {
			return fmt.Errorf("assign user role to profile user %d: %w", i, err)
		}
		p.UUID = uuid.NewString()
		p.UserID = userID
		if err := s.Store.UpsertProfile(ctx, p); err != nil {
			return fmt.Errorf("upsert profile %s: %w", p.Slug, err)
		}
	}
	s.Logger.Infof("seeded %d profiles", s.ProfileCount)

	// Sequence drift only matters after manual imports; never fail the run over it.
	if err := s.Store.ResetSequences(ctx); err != nil {
		s.Logger.Warnf("reset sequences: %v", err)
	}

	s.Logger.Info("seeding finished")
	return nil
}
