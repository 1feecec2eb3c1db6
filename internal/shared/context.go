package shared

import "context"

// Identity is the authenticated principal attached to a request after the
// bearer token has been validated and the account resolved. Role fields are
// denormalized here so authorization decisions need no extra lookup.
type Identity struct {
	ID          int64
	Email       string
	IsActive    bool
	RoleID      *int64
	RoleName    string
	IsSuperuser bool
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the identity from context. A nil return means
// the request is anonymous.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityContextKey{}).(*Identity)
	return ident
}
