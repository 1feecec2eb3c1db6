package rbac

import (
	"context"
	"errors"

	"github.com/sentra-auth/sentra/internal/shared"
)

// RuleSource resolves the rule for a (role, resource-name) pair. It returns
// shared.ErrNotFound when no rule is defined, which the engine collapses into
// a denial.
type RuleSource interface {
	RuleFor(ctx context.Context, roleID int64, resource string) (Rule, error)
}

// Engine makes allow/deny decisions for authenticated identities. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	rules RuleSource
}

// NewEngine constructs an Engine over the given rule source.
func NewEngine(rules RuleSource) *Engine {
	return &Engine{rules: rules}
}

// Authorize decides whether the identity may perform the descriptor's action
// on its resource. The check order defines the security posture:
//
//  1. anonymous or deactivated identities are denied outright;
//  2. a descriptor that declares no resource or no action allows the request
//     (the escape hatch for endpoints that intentionally skip enforcement);
//  3. a superuser role allows everything, rule matrix not consulted;
//  4. an action the engine does not know is denied without a lookup;
//  5. an identity without a role is denied;
//  6. no rule for (role, resource) is a denial, never an error;
//  7. otherwise the rule's scope flags decide.
func (e *Engine) Authorize(ctx context.Context, ident *shared.Identity, d Descriptor) (bool, error) {
	if ident == nil || !ident.IsActive {
		return false, nil
	}
	if !d.Enforced() {
		return true, nil
	}
	if ident.IsSuperuser {
		return true, nil
	}
	if !d.Action.Valid() {
		return false, nil
	}
	if ident.RoleID == nil {
		return false, nil
	}

	rule, err := e.rules.RuleFor(ctx, *ident.RoleID, d.Resource)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rule.Allows(d.Action), nil
}
