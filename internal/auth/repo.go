package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentra-auth/sentra/internal/roles"
	"github.com/sentra-auth/sentra/internal/shared"
)

// Repository defines the credential store operations the auth flow consumes.
// Email and ID are the only lookup keys the core ever uses.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userQuery = `SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.middle_name,
	u.is_active, u.created_at, u.updated_at,
	r.id, r.name, r.is_superuser
FROM users u
LEFT JOIN roles r ON r.id = u.role_id`

// FindByEmail fetches a user with its role by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, userQuery+` WHERE u.email = $1`, email)
}

// FindByID fetches a user with its role by ID.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, userQuery+` WHERE u.id = $1`, id)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var (
		user          User
		roleID        *int64
		roleName      *string
		roleSuperuser *bool
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.MiddleName,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
		&roleID, &roleName, &roleSuperuser,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if roleID != nil {
		user.Role = &roles.Role{ID: *roleID, Name: *roleName, IsSuperuser: *roleSuperuser}
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
