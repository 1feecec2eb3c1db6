package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentra-auth/sentra/internal/auth"
	"github.com/sentra-auth/sentra/internal/roles"
	"github.com/sentra-auth/sentra/internal/shared"
	"github.com/sentra-auth/sentra/internal/token"
	_ "github.com/sentra-auth/sentra/testing"
)

type stubRepo struct {
	user *auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return password, nil }

func (plainHasher) Verify(password, hash string) bool { return password == hash }

func activeUser() *auth.User {
	return &auth.User{
		ID:           7,
		Email:        "ada@example.com",
		PasswordHash: "correct horse",
		IsActive:     true,
		Role:         &roles.Role{ID: 3, Name: "Manager"},
	}
}

func newTokens(t *testing.T) *token.Service {
	t.Helper()
	return token.NewService("test-secret", time.Hour)
}

func TestAuthenticate(t *testing.T) {
	svc := auth.NewService(&stubRepo{user: activeUser()}, newTokens(t), plainHasher{})
	ctx := context.Background()

	user, err := svc.Authenticate(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	// Unknown email, wrong password and deactivated account must all
	// produce the same error so responses cannot leak which accounts exist.
	deactivated := activeUser()
	deactivated.IsActive = false

	cases := []struct {
		name     string
		repo     *stubRepo
		email    string
		password string
	}{
		{"unknown email", &stubRepo{user: activeUser()}, "nobody@example.com", "correct horse"},
		{"wrong password", &stubRepo{user: activeUser()}, "ada@example.com", "wrong"},
		{"deactivated account", &stubRepo{user: deactivated}, "ada@example.com", "correct horse"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := auth.NewService(tc.repo, newTokens(t), plainHasher{})
			_, err := svc.Authenticate(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestLoginRoundTrip(t *testing.T) {
	user := activeUser()
	svc := auth.NewService(&stubRepo{user: user}, newTokens(t), plainHasher{})
	ctx := context.Background()

	tok, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	ident, err := svc.ResolveToken(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, user.ID, ident.ID)
	require.Equal(t, user.Email, ident.Email)
	require.NotNil(t, ident.RoleID)
	require.Equal(t, "Manager", ident.RoleName)
}

func TestResolveTokenRejectsDeactivated(t *testing.T) {
	// A valid token stops working the moment the account is soft deleted.
	user := activeUser()
	repo := &stubRepo{user: user}
	svc := auth.NewService(repo, newTokens(t), plainHasher{})
	ctx := context.Background()

	tok, err := svc.Login(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)

	user.IsActive = false
	_, err = svc.ResolveToken(ctx, tok)
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestResolveTokenRejectsGarbage(t *testing.T) {
	svc := auth.NewService(&stubRepo{user: activeUser()}, newTokens(t), plainHasher{})
	_, err := svc.ResolveToken(context.Background(), "not-a-token")
	require.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := auth.BcryptHasher{}
	hash, err := hasher.Hash("s3cret-passphrase")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-passphrase", hash)
	require.True(t, hasher.Verify("s3cret-passphrase", hash))
	require.False(t, hasher.Verify("other", hash))
}
