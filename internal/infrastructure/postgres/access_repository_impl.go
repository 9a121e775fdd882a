package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/internal/domain/repository"
)

type AccessRepository struct {
	pool *pgxpool.Pool
}

func NewAccessRepository(pool *pgxpool.Pool) *AccessRepository {
	return &AccessRepository{pool: pool}
}

func (r *AccessRepository) GetRole(ctx context.Context, id int64) (*entity.Role, error) {
	ro := &entity.Role{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, COALESCE(description, ''), created_at, updated_at
		FROM roles WHERE id = $1
	`, id)
	if err := row.Scan(&ro.ID, &ro.Name, &ro.Slug, &ro.Description, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ro, nil
}

func (r *AccessRepository) ListRoles(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, COALESCE(description, ''), created_at, updated_at
		FROM roles ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []entity.Role
	for rows.Next() {
		var ro entity.Role
		if err := rows.Scan(&ro.ID, &ro.Name, &ro.Slug, &ro.Description, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, ro)
	}
	return roles, rows.Err()
}

func (r *AccessRepository) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, COALESCE(description, ''), created_at, updated_at
		FROM permissions ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// PrimaryRole resolves the user's first user_roles row by insertion order.
func (r *AccessRepository) PrimaryRole(ctx context.Context, userID int64) (*entity.Role, error) {
	ro := &entity.Role{}
	row := r.pool.QueryRow(ctx, `
		SELECT ro.id, ro.name, ro.slug, COALESCE(ro.description, ''), ro.created_at, ro.updated_at
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ur.id ASC
		LIMIT 1
	`, userID)
	if err := row.Scan(&ro.ID, &ro.Name, &ro.Slug, &ro.Description, &ro.CreatedAt, &ro.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ro, nil
}

func (r *AccessRepository) UserPermissions(ctx context.Context, userID int64) ([]entity.PermissionGrant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT up.permission_id, p.slug
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1
		ORDER BY up.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := []entity.PermissionGrant{}
	for rows.Next() {
		var g entity.PermissionGrant
		if err := rows.Scan(&g.ID, &g.Slug); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func (r *AccessRepository) CountUserRoles(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *AccessRepository) AssignRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, roleID)
	return err
}

func (r *AccessRepository) ReplaceRole(ctx context.Context, userID, roleID int64) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, roleID)
		return err
	})
}

func (r *AccessRepository) AddPermissions(ctx context.Context, userID int64, permissionIDs []int64) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return insertPermissions(ctx, tx, userID, permissionIDs)
	})
}

func (r *AccessRepository) ReplacePermissions(ctx context.Context, userID int64, permissionIDs []int64) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID); err != nil {
			return err
		}
		return insertPermissions(ctx, tx, userID, permissionIDs)
	})
}

func insertPermissions(ctx context.Context, tx pgx.Tx, userID int64, permissionIDs []int64) error {
	for _, pid := range permissionIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_permissions (user_id, permission_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, permission_id) DO NOTHING
		`, userID, pid); err != nil {
			return err
		}
	}
	return nil
}

func (r *AccessRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.AccessRepository = (*AccessRepository)(nil)
