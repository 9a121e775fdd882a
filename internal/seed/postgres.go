package seed

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore implements Store on database/sql. Inserts use
// ON CONFLICT DO NOTHING and fall back to a select when the row already
// existed, so the original row always wins.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) insertOrSelect(ctx context.Context, insert string, insertArgs []any, sel string, selArgs []any) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, insert, insertArgs...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		err = s.db.QueryRowContext(ctx, sel, selArgs...).Scan(&id)
	}
	return id, err
}

func (s *PostgresStore) UpsertUser(ctx context.Context, uid, name, email, passwordHash string) (int64, error) {
	return s.insertOrSelect(ctx,
		`INSERT INTO users (uuid, name, email, password)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING id`,
		[]any{uid, name, email, passwordHash},
		`SELECT id FROM users WHERE email = $1`,
		[]any{email},
	)
}

func (s *PostgresStore) UpsertRole(ctx context.Context, name, slug, description string) (int64, error) {
	return s.insertOrSelect(ctx,
		`INSERT INTO roles (name, slug, description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO NOTHING
		 RETURNING id`,
		[]any{name, slug, description},
		`SELECT id FROM roles WHERE slug = $1`,
		[]any{slug},
	)
}

func (s *PostgresStore) UpsertPermission(ctx context.Context, name, slug, description string) (int64, error) {
	return s.insertOrSelect(ctx,
		`INSERT INTO permissions (name, slug, description)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO NOTHING
		 RETURNING id`,
		[]any{name, slug, description},
		`SELECT id FROM permissions WHERE slug = $1`,
		[]any{slug},
	)
}

func (s *PostgresStore) UpsertRolePermission(ctx context.Context, roleID, permissionID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission_id)
		 VALUES ($1, $2)
		 ON CONFLICT (role_id, permission_id) DO NOTHING`,
		roleID, permissionID)
	return err
}

func (s *PostgresStore) UpsertUserRole(ctx context.Context, userID, roleID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, role_id) DO NOTHING`,
		userID, roleID)
	return err
}

// UpsertProfile re-points an existing profile at its user but keeps
// every other original value.
func (s *PostgresStore) UpsertProfile(ctx context.Context, p Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile_users (
			uuid, user_id, name, slug, status, views, tags, description, username,
			gender, date_of_birth, marital_status, nik, kk, phone, whatsapp,
			address, city, state, country, postal_code,
			website, facebook, instagram, twitter, linkedin, youtube
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27
		)
		ON CONFLICT (slug) DO UPDATE SET user_id = EXCLUDED.user_id`,
		p.UUID, p.UserID, p.Name, p.Slug, p.Status, p.Views, p.Tags, p.Description, p.Username,
		p.Gender, p.DateOfBirth, p.MaritalStatus, p.NIK, p.KK, p.Phone, p.Whatsapp,
		p.Address, p.City, p.State, p.Country, p.PostalCode,
		p.Website, p.Facebook, p.Instagram, p.Twitter, p.LinkedIn, p.YouTube)
	return err
}

// ResetSequences realigns serial sequences with max(id) after rows were
// created with explicit ids elsewhere.
func (s *PostgresStore) ResetSequences(ctx context.Context) error {
	tables := []string{"users", "roles", "permissions", "user_roles", "user_permissions", "profile_users"}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx,
			`SELECT setval(pg_get_serial_sequence('`+t+`', 'id'), COALESCE((SELECT MAX(id) FROM `+t+`), 0) + 1, false)`); err != nil {
			return err
		}
	}
	return nil
}
