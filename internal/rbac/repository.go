package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	platformdb "github.com/sentra-auth/sentra/internal/platform/db"
	"github.com/sentra-auth/sentra/internal/shared"
)

const ruleColumns = `id, role_id, resource_id,
	read_permission, read_all_permission, create_permission,
	update_permission, update_all_permission, delete_permission, delete_all_permission,
	created_at, updated_at`

// Repository provides PostgreSQL backed persistence for resources and rules.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RuleFor fetches the rule for a role and resource name.
func (r *Repository) RuleFor(ctx context.Context, roleID int64, resource string) (Rule, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT ar.id, ar.role_id, ar.resource_id,
			ar.read_permission, ar.read_all_permission, ar.create_permission,
			ar.update_permission, ar.update_all_permission, ar.delete_permission, ar.delete_all_permission,
			ar.created_at, ar.updated_at
		 FROM access_rules ar
		 JOIN resources res ON res.id = ar.resource_id
		 WHERE ar.role_id = $1 AND res.name = $2`,
		roleID, resource,
	)
	return scanRule(row)
}

// GetRule fetches a rule by ID.
func (r *Repository) GetRule(ctx context.Context, id int64) (Rule, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM access_rules WHERE id = $1`, id)
	return scanRule(row)
}

// ListRules returns all rules ordered by id.
func (r *Repository) ListRules(ctx context.Context) ([]Rule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ruleColumns+` FROM access_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRule inserts a new rule. A second rule for the same (role, resource)
// pair is rejected by the unique constraint, never silently duplicated.
func (r *Repository) CreateRule(ctx context.Context, rule Rule) (Rule, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO access_rules (role_id, resource_id,
			read_permission, read_all_permission, create_permission,
			update_permission, update_all_permission, delete_permission, delete_all_permission)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+ruleColumns,
		rule.RoleID, rule.ResourceID,
		rule.ReadPermission, rule.ReadAllPermission, rule.CreatePermission,
		rule.UpdatePermission, rule.UpdateAllPermission, rule.DeletePermission, rule.DeleteAllPermission,
	)
	created, err := scanRule(row)
	if err != nil {
		if platformdb.IsUniqueViolation(err) {
			return Rule{}, shared.ErrDuplicate
		}
		if platformdb.IsForeignKeyViolation(err) {
			return Rule{}, fmt.Errorf("%w: unknown role or resource", shared.ErrValidation)
		}
		return Rule{}, err
	}
	return created, nil
}

// UpdateRule replaces the scope flags of an existing rule.
func (r *Repository) UpdateRule(ctx context.Context, rule Rule) (Rule, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE access_rules SET
			read_permission = $2, read_all_permission = $3, create_permission = $4,
			update_permission = $5, update_all_permission = $6,
			delete_permission = $7, delete_all_permission = $8,
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+ruleColumns,
		rule.ID,
		rule.ReadPermission, rule.ReadAllPermission, rule.CreatePermission,
		rule.UpdatePermission, rule.UpdateAllPermission, rule.DeletePermission, rule.DeleteAllPermission,
	)
	return scanRule(row)
}

// DeleteRule removes a rule by ID.
func (r *Repository) DeleteRule(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM access_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListResources returns all resources ordered by id.
func (r *Repository) ListResources(ctx context.Context) ([]Resource, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM resources ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(&res.ID, &res.Name, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetResource fetches a resource by ID.
func (r *Repository) GetResource(ctx context.Context, id int64) (Resource, error) {
	var res Resource
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM resources WHERE id = $1`, id).
		Scan(&res.ID, &res.Name, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resource{}, shared.ErrNotFound
		}
		return Resource{}, err
	}
	return res, nil
}

// CreateResource inserts a new resource.
func (r *Repository) CreateResource(ctx context.Context, name string) (Resource, error) {
	var res Resource
	err := r.pool.QueryRow(ctx,
		`INSERT INTO resources (name) VALUES ($1) RETURNING id, name, created_at`, name,
	).Scan(&res.ID, &res.Name, &res.CreatedAt)
	if err != nil {
		if platformdb.IsUniqueViolation(err) {
			return Resource{}, shared.ErrDuplicate
		}
		return Resource{}, err
	}
	return res, nil
}

// GetOrCreateResource fetches a resource by name, creating it when absent.
func (r *Repository) GetOrCreateResource(ctx context.Context, name string) (Resource, error) {
	var res Resource
	err := r.pool.QueryRow(ctx,
		`INSERT INTO resources (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name, created_at`,
		name,
	).Scan(&res.ID, &res.Name, &res.CreatedAt)
	if err != nil {
		return Resource{}, err
	}
	return res, nil
}

// DeleteResource removes a resource by ID; dependent rules cascade.
func (r *Repository) DeleteResource(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (Rule, error) {
	var rule Rule
	err := row.Scan(
		&rule.ID, &rule.RoleID, &rule.ResourceID,
		&rule.ReadPermission, &rule.ReadAllPermission, &rule.CreatePermission,
		&rule.UpdatePermission, &rule.UpdateAllPermission, &rule.DeletePermission, &rule.DeleteAllPermission,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rule{}, shared.ErrNotFound
		}
		return Rule{}, err
	}
	return rule, nil
}
