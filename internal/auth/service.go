package auth

import (
	"context"

	"github.com/sentra-auth/sentra/internal/shared"
	"github.com/sentra-auth/sentra/internal/token"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *token.Service
	hasher PasswordHasher
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *token.Service, hasher PasswordHasher) *Service {
	return &Service{repo: repo, tokens: tokens, hasher: hasher}
}

// Authenticate validates email/password credentials. Not-found, deactivated
// and wrong-password all collapse into the same error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID)
}

// ResolveToken validates a bearer token and resolves the live identity behind
// it. Token validity alone is not enough: the account must still exist and be
// active, which is how soft deletion revokes access ahead of token expiry.
func (s *Service) ResolveToken(ctx context.Context, raw string) (*shared.Identity, error) {
	id, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	return user.Identity(), nil
}
