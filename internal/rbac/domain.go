package rbac

import "time"

// Action is an operation attempted against a protected resource.
type Action string

// Actions the rule matrix can grant.
const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether the action is one the engine knows how to evaluate.
func (a Action) Valid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Resource is a named protected collection ("users", "products", "orders").
type Resource struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Rule grants a role a set of scopes on one resource. At most one rule exists
// per (role, resource) pair. The "own" and "all" scopes are independent
// flags; the engine ORs them per action ("create" has a single scope).
type Rule struct {
	ID         int64
	RoleID     int64
	ResourceID int64

	ReadPermission      bool
	ReadAllPermission   bool
	CreatePermission    bool
	UpdatePermission    bool
	UpdateAllPermission bool
	DeletePermission    bool
	DeleteAllPermission bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Allows evaluates one action against the rule's scope flags. Unknown actions
// are denied.
func (r Rule) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return r.ReadPermission || r.ReadAllPermission
	case ActionCreate:
		return r.CreatePermission
	case ActionUpdate:
		return r.UpdatePermission || r.UpdateAllPermission
	case ActionDelete:
		return r.DeletePermission || r.DeleteAllPermission
	}
	return false
}

// Descriptor declares what a protected operation requires. It is attached
// statically at route registration instead of probed off handlers at runtime.
// A descriptor missing either field disables enforcement for that operation;
// see Engine.Authorize.
type Descriptor struct {
	Resource string
	Action   Action
}

// Enforced reports whether the descriptor actually restricts anything.
func (d Descriptor) Enforced() bool {
	return d.Resource != "" && d.Action != ""
}
