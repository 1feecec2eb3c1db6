package auth

import (
	"time"

	"github.com/sentra-auth/sentra/internal/roles"
	"github.com/sentra-auth/sentra/internal/shared"
)

// User represents an identity record as the credential store holds it.
// Accounts are never physically removed: deactivation flips IsActive and
// every later authentication fails, valid token or not.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	MiddleName   *string
	IsActive     bool
	Role         *roles.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity converts the record into the request-scoped principal.
func (u *User) Identity() *shared.Identity {
	ident := &shared.Identity{
		ID:       u.ID,
		Email:    u.Email,
		IsActive: u.IsActive,
	}
	if u.Role != nil {
		ident.RoleID = &u.Role.ID
		ident.RoleName = u.Role.Name
		ident.IsSuperuser = u.Role.IsSuperuser
	}
	return ident
}
