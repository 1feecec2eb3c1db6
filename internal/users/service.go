package users

import (
	"context"

	"github.com/sentra-auth/sentra/internal/auth"
	"github.com/sentra-auth/sentra/internal/roles"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string, middleName *string) (User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Deactivate(ctx context.Context, id int64) error
	AssignRole(ctx context.Context, id int64, roleID *int64) (User, error)
}

// RoleProvider supplies the lazily created roles registration and bootstrap
// rely on.
type RoleProvider interface {
	EnsureDefaultRole(ctx context.Context) (roles.Role, error)
	EnsureAdminRole(ctx context.Context) (roles.Role, error)
}

// RegisterInput carries the fields a new account is created from.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	MiddleName *string
}

// ProfileUpdate carries profile mutation fields. Nil means keep current.
type ProfileUpdate struct {
	FirstName  *string
	LastName   *string
	MiddleName *string
	Password   *string
}

// Service handles user account business logic.
type Service struct {
	repo   RepositoryPort
	roles  RoleProvider
	hasher auth.PasswordHasher
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, roleProvider RoleProvider, hasher auth.PasswordHasher) *Service {
	return &Service{repo: repo, roles: roleProvider, hasher: hasher}
}

// Register creates a new active account carrying the default role. The role
// is created on first use, so a fresh deployment needs no role seeding to
// accept registrations.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	role, err := s.roles.EnsureDefaultRole(ctx)
	if err != nil {
		return User{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}
	user := User{
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		MiddleName: in.MiddleName,
		RoleID:     &role.ID,
	}
	return s.repo.CreateUser(ctx, user, hash)
}

// RegisterSuperuser creates an account on the unrestricted admin role. Used
// by bootstrap seeding only.
func (s *Service) RegisterSuperuser(ctx context.Context, in RegisterInput) (User, error) {
	role, err := s.roles.EnsureAdminRole(ctx)
	if err != nil {
		return User{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}
	user := User{
		Email:      in.Email,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		MiddleName: in.MiddleName,
		RoleID:     &role.ID,
	}
	return s.repo.CreateUser(ctx, user, hash)
}

// GetUser fetches one account.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateProfile applies a partial profile update to the account.
func (s *Service) UpdateProfile(ctx context.Context, id int64, upd ProfileUpdate) (User, error) {
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}

	firstName := current.FirstName
	if upd.FirstName != nil {
		firstName = *upd.FirstName
	}
	lastName := current.LastName
	if upd.LastName != nil {
		lastName = *upd.LastName
	}
	middleName := current.MiddleName
	if upd.MiddleName != nil {
		middleName = upd.MiddleName
	}

	user, err := s.repo.UpdateProfile(ctx, id, firstName, lastName, middleName)
	if err != nil {
		return User{}, err
	}

	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return User{}, err
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return User{}, err
		}
	}
	return user, nil
}

// Deactivate soft-deletes the account. Outstanding tokens keep verifying
// cryptographically but request authentication fails from the next call on.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.Deactivate(ctx, id)
}

// AssignRole reassigns the account's role; nil clears it.
func (s *Service) AssignRole(ctx context.Context, id int64, roleID *int64) (User, error) {
	return s.repo.AssignRole(ctx, id, roleID)
}
