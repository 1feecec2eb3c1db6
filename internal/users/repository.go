package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	platformdb "github.com/sentra-auth/sentra/internal/platform/db"
	"github.com/sentra-auth/sentra/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `u.id, u.email, u.first_name, u.last_name, u.middle_name,
	u.is_active, u.role_id, COALESCE(r.name, ''), u.created_at, u.updated_at`

const userSelect = `SELECT ` + userColumns + ` FROM users u LEFT JOIN roles r ON r.id = u.role_id`

// ListUsers returns all users.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a new account with its password hash and role.
func (r *Repository) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, middle_name, role_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		user.Email, passwordHash, user.FirstName, user.LastName, user.MiddleName, user.RoleID,
	).Scan(&id)
	if err != nil {
		if platformdb.IsUniqueViolation(err) {
			return User{}, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
		}
		return User{}, err
	}
	return r.GetUser(ctx, id)
}

// UpdateProfile updates the display name fields. The write and the re-read
// run in one transaction so the returned record matches what was stored.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string, middleName *string) (User, error) {
	var user User
	err := platformdb.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET first_name = $2, last_name = $3, middle_name = $4, updated_at = now() WHERE id = $1`,
			id, firstName, lastName, middleName,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		user, err = scanUser(tx.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
		return err
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes an account. The row stays put; only the active
// flag flips.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AssignRole sets or clears the role reference.
func (r *Repository) AssignRole(ctx context.Context, id int64, roleID *int64) (User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role_id = $2, updated_at = now() WHERE id = $1`, id, roleID)
	if err != nil {
		if platformdb.IsForeignKeyViolation(err) {
			return User{}, fmt.Errorf("%w: unknown role", shared.ErrValidation)
		}
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return r.GetUser(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.MiddleName,
		&user.IsActive, &user.RoleID, &user.RoleName, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}
