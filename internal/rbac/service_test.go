package rbac_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentra-auth/sentra/internal/rbac"
	"github.com/sentra-auth/sentra/internal/shared"
)

type stubMatrixRepo struct {
	stubRules
	created []rbac.Rule
	deleted []int64
}

func (s *stubMatrixRepo) GetRule(ctx context.Context, id int64) (rbac.Rule, error) {
	return rbac.Rule{ID: id}, nil
}

func (s *stubMatrixRepo) ListRules(ctx context.Context) ([]rbac.Rule, error) {
	return s.created, nil
}

func (s *stubMatrixRepo) CreateRule(ctx context.Context, rule rbac.Rule) (rbac.Rule, error) {
	for _, existing := range s.created {
		if existing.RoleID == rule.RoleID && existing.ResourceID == rule.ResourceID {
			return rbac.Rule{}, shared.ErrDuplicate
		}
	}
	rule.ID = int64(len(s.created) + 1)
	s.created = append(s.created, rule)
	return rule, nil
}

func (s *stubMatrixRepo) UpdateRule(ctx context.Context, rule rbac.Rule) (rbac.Rule, error) {
	return rule, nil
}

func (s *stubMatrixRepo) DeleteRule(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubMatrixRepo) ListResources(ctx context.Context) ([]rbac.Resource, error) {
	return nil, nil
}

func (s *stubMatrixRepo) GetResource(ctx context.Context, id int64) (rbac.Resource, error) {
	return rbac.Resource{ID: id}, nil
}

func (s *stubMatrixRepo) CreateResource(ctx context.Context, name string) (rbac.Resource, error) {
	return rbac.Resource{ID: 1, Name: name}, nil
}

func (s *stubMatrixRepo) GetOrCreateResource(ctx context.Context, name string) (rbac.Resource, error) {
	return rbac.Resource{ID: 1, Name: name}, nil
}

func (s *stubMatrixRepo) DeleteResource(ctx context.Context, id int64) error {
	return nil
}

type countingInvalidator struct {
	count int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.count++
	return nil
}

func TestCreateRuleRejectsDuplicatePair(t *testing.T) {
	repo := &stubMatrixRepo{}
	svc := rbac.NewService(repo, nil, nil)
	ctx := context.Background()

	rule := rbac.Rule{RoleID: 2, ResourceID: 3, ReadPermission: true}
	_, err := svc.CreateRule(ctx, rule)
	require.NoError(t, err)

	_, err = svc.CreateRule(ctx, rule)
	require.ErrorIs(t, err, shared.ErrDuplicate)
	require.Len(t, repo.created, 1, "duplicate pair must never be stored")
}

func TestCreateRuleValidatesReferences(t *testing.T) {
	svc := rbac.NewService(&stubMatrixRepo{}, nil, nil)
	_, err := svc.CreateRule(context.Background(), rbac.Rule{ReadPermission: true})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestMutationsInvalidateCache(t *testing.T) {
	repo := &stubMatrixRepo{}
	inv := &countingInvalidator{}
	svc := rbac.NewService(repo, inv, nil)
	ctx := context.Background()

	created, err := svc.CreateRule(ctx, rbac.Rule{RoleID: 2, ResourceID: 3})
	require.NoError(t, err)
	require.Equal(t, 1, inv.count)

	_, err = svc.UpdateRule(ctx, created)
	require.NoError(t, err)
	require.Equal(t, 2, inv.count)

	require.NoError(t, svc.DeleteRule(ctx, created.ID))
	require.Equal(t, 3, inv.count)

	require.NoError(t, svc.DeleteResource(ctx, 3))
	require.Equal(t, 4, inv.count)
}

func TestCreateResourceRequiresName(t *testing.T) {
	svc := rbac.NewService(&stubMatrixRepo{}, nil, nil)
	_, err := svc.CreateResource(context.Background(), "   ")
	require.ErrorIs(t, err, shared.ErrValidation)
}
