package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robyajo/api-conatct/internal/domain/entity"
	"github.com/robyajo/api-conatct/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func isDuplicateEmail(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "users_email_key"
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (uuid, name, email, password, avatar)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at, updated_at
	`, u.UUID, u.Name, u.Email, u.Password, u.Avatar)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isDuplicateEmail(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, uuid, name, email, password, COALESCE(avatar, ''), email_verified_at, created_at, updated_at
		FROM users `+where, arg)

	if err := row.Scan(&u.ID, &u.UUID, &u.Name, &u.Email, &u.Password, &u.Avatar,
		&u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, password = $3, avatar = NULLIF($4, ''), updated_at = $5
		WHERE id = $6
	`, u.Name, u.Email, u.Password, u.Avatar, u.UpdatedAt, u.ID)
	if err != nil {
		if isDuplicateEmail(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	// user_roles, user_permissions and profile_users rows go with the user
	// via ON DELETE CASCADE declared in the schema.
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, f repository.ListUsersFilter) ([]entity.User, int64, error) {
	where := ` WHERE ($1 = ''
			OR name ILIKE '%' || $1 || '%'
			OR email ILIKE '%' || $1 || '%')
		AND ($2 = '' OR EXISTS (
			SELECT 1 FROM user_roles ur
			JOIN roles ro ON ro.id = ur.role_id
			WHERE ur.user_id = users.id AND ro.slug = $2))`

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, f.Search, f.RoleSlug).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, uuid, name, email, password, COALESCE(avatar, ''), email_verified_at, created_at, updated_at
		FROM users`+where+`
		ORDER BY id ASC
		OFFSET $3 LIMIT $4
	`, f.Search, f.RoleSlug, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.UUID, &u.Name, &u.Email, &u.Password, &u.Avatar,
			&u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
