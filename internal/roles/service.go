package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentra-auth/sentra/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, superuser bool) (Role, error)
	GetOrCreateRole(ctx context.Context, name string, superuser bool) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name string, superuser bool) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}
	return s.repo.CreateRole(ctx, name, superuser)
}

// EnsureDefaultRole returns the role assigned to freshly registered
// identities, creating it when missing.
func (s *Service) EnsureDefaultRole(ctx context.Context) (Role, error) {
	return s.repo.GetOrCreateRole(ctx, DefaultRoleName, false)
}

// EnsureAdminRole returns the unrestricted role used by superuser bootstrap,
// creating it with the superuser flag when missing.
func (s *Service) EnsureAdminRole(ctx context.Context) (Role, error) {
	return s.repo.GetOrCreateRole(ctx, AdminRoleName, true)
}

// DeleteRole removes a role by ID.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}
