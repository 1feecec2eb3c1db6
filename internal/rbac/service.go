package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sentra-auth/sentra/internal/shared"
)

// RepositoryPort defines data access methods for the rule matrix.
type RepositoryPort interface {
	RuleSource
	GetRule(ctx context.Context, id int64) (Rule, error)
	ListRules(ctx context.Context) ([]Rule, error)
	CreateRule(ctx context.Context, rule Rule) (Rule, error)
	UpdateRule(ctx context.Context, rule Rule) (Rule, error)
	DeleteRule(ctx context.Context, id int64) error

	ListResources(ctx context.Context) ([]Resource, error)
	GetResource(ctx context.Context, id int64) (Resource, error)
	CreateResource(ctx context.Context, name string) (Resource, error)
	GetOrCreateResource(ctx context.Context, name string) (Resource, error)
	DeleteResource(ctx context.Context, id int64) error
}

// Invalidator drops cached rule lookups after matrix mutations.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service orchestrates administrative CRUD on the rule matrix. Every mutation
// invalidates the rule cache so the engine never decides on stale scopes
// beyond the cache TTL.
type Service struct {
	repo   RepositoryPort
	cache  Invalidator
	logger *slog.Logger
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// ListRules returns all rules.
func (s *Service) ListRules(ctx context.Context) ([]Rule, error) {
	return s.repo.ListRules(ctx)
}

// GetRule fetches a rule by ID.
func (s *Service) GetRule(ctx context.Context, id int64) (Rule, error) {
	return s.repo.GetRule(ctx, id)
}

// CreateRule inserts a new rule, rejecting duplicates of (role, resource).
func (s *Service) CreateRule(ctx context.Context, rule Rule) (Rule, error) {
	if rule.RoleID <= 0 || rule.ResourceID <= 0 {
		return Rule{}, fmt.Errorf("%w: role_id and resource_id required", shared.ErrValidation)
	}
	created, err := s.repo.CreateRule(ctx, rule)
	if err != nil {
		return Rule{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateRule replaces the scope flags of an existing rule. The (role,
// resource) pair is immutable; delete and recreate to move a rule.
func (s *Service) UpdateRule(ctx context.Context, rule Rule) (Rule, error) {
	updated, err := s.repo.UpdateRule(ctx, rule)
	if err != nil {
		return Rule{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteRule removes a rule by ID.
func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRule(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// GetResource fetches a resource by ID.
func (s *Service) GetResource(ctx context.Context, id int64) (Resource, error) {
	return s.repo.GetResource(ctx, id)
}

// ListResources returns all resources.
func (s *Service) ListResources(ctx context.Context) ([]Resource, error) {
	return s.repo.ListResources(ctx)
}

// CreateResource inserts a new resource.
func (s *Service) CreateResource(ctx context.Context, name string) (Resource, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resource{}, fmt.Errorf("%w: resource name required", shared.ErrValidation)
	}
	return s.repo.CreateResource(ctx, name)
}

// EnsureResource fetches a resource by name, creating it when absent. Used by
// bootstrap seeding.
func (s *Service) EnsureResource(ctx context.Context, name string) (Resource, error) {
	return s.repo.GetOrCreateResource(ctx, name)
}

// DeleteResource removes a resource; its rules cascade away with it so no
// dangling rule can reference a missing resource.
func (s *Service) DeleteResource(ctx context.Context, id int64) error {
	if err := s.repo.DeleteResource(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
		s.logger.Warn("rule cache invalidate", slog.Any("error", err))
	}
}
