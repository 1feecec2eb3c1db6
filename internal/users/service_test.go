package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentra-auth/sentra/internal/roles"
	"github.com/sentra-auth/sentra/internal/shared"
	"github.com/sentra-auth/sentra/internal/users"
	_ "github.com/sentra-auth/sentra/testing"
)

type stubUserRepo struct {
	byID        map[int64]users.User
	nextID      int64
	passwords   map[int64]string
	deactivated []int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[int64]users.User{}, passwords: map[int64]string{}}
}

func (s *stubUserRepo) ListUsers(ctx context.Context) ([]users.User, error) {
	out := make([]users.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserRepo) GetUser(ctx context.Context, id int64) (users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) CreateUser(ctx context.Context, user users.User, passwordHash string) (users.User, error) {
	for _, existing := range s.byID {
		if existing.Email == user.Email {
			return users.User{}, shared.ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.IsActive = true
	s.byID[user.ID] = user
	s.passwords[user.ID] = passwordHash
	return user, nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id int64, firstName, lastName string, middleName *string) (users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.MiddleName = middleName
	s.byID[id] = u
	return u, nil
}

func (s *stubUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if _, ok := s.byID[id]; !ok {
		return shared.ErrNotFound
	}
	s.passwords[id] = passwordHash
	return nil
}

func (s *stubUserRepo) Deactivate(ctx context.Context, id int64) error {
	u, ok := s.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = false
	s.byID[id] = u
	s.deactivated = append(s.deactivated, id)
	return nil
}

func (s *stubUserRepo) AssignRole(ctx context.Context, id int64, roleID *int64) (users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	u.RoleID = roleID
	s.byID[id] = u
	return u, nil
}

type stubRoleProvider struct {
	defaultCalls int
	adminCalls   int
}

func (s *stubRoleProvider) EnsureDefaultRole(ctx context.Context) (roles.Role, error) {
	s.defaultCalls++
	return roles.Role{ID: 2, Name: roles.DefaultRoleName}, nil
}

func (s *stubRoleProvider) EnsureAdminRole(ctx context.Context) (roles.Role, error) {
	s.adminCalls++
	return roles.Role{ID: 1, Name: roles.AdminRoleName, IsSuperuser: true}, nil
}

type recordingHasher struct{}

func (recordingHasher) Hash(raw string) (string, error) { return "hashed:" + raw, nil }

func (recordingHasher) Verify(raw, digest string) bool { return "hashed:"+raw == digest }

func strPtr(s string) *string { return &s }

func TestRegisterAssignsDefaultRole(t *testing.T) {
	repo := newStubUserRepo()
	provider := &stubRoleProvider{}
	svc := users.NewService(repo, provider, recordingHasher{})

	created, err := svc.Register(context.Background(), users.RegisterInput{
		Email:     "ada@example.com",
		Password:  "s3cret-passphrase",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, 1, provider.defaultCalls)
	require.NotNil(t, created.RoleID)
	require.Equal(t, int64(2), *created.RoleID)
	require.True(t, created.IsActive)
	require.Equal(t, "hashed:s3cret-passphrase", repo.passwords[created.ID],
		"raw password must never reach the store")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := users.NewService(repo, &stubRoleProvider{}, recordingHasher{})
	in := users.RegisterInput{Email: "ada@example.com", Password: "s3cret-passphrase"}

	_, err := svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestRegisterSuperuser(t *testing.T) {
	repo := newStubUserRepo()
	provider := &stubRoleProvider{}
	svc := users.NewService(repo, provider, recordingHasher{})

	created, err := svc.RegisterSuperuser(context.Background(), users.RegisterInput{
		Email:    "root@example.com",
		Password: "s3cret-passphrase",
	})
	require.NoError(t, err)
	require.Equal(t, 1, provider.adminCalls)
	require.Equal(t, 0, provider.defaultCalls)
	require.NotNil(t, created.RoleID)
	require.Equal(t, int64(1), *created.RoleID)
}

func TestUpdateProfileMergesPartialFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := users.NewService(repo, &stubRoleProvider{}, recordingHasher{})
	ctx := context.Background()

	created, err := svc.Register(ctx, users.RegisterInput{
		Email:      "ada@example.com",
		Password:   "s3cret-passphrase",
		FirstName:  "Ada",
		LastName:   "Lovelace",
		MiddleName: strPtr("King"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, created.ID, users.ProfileUpdate{
		LastName: strPtr("Byron"),
	})
	require.NoError(t, err)
	require.Equal(t, "Ada", updated.FirstName, "unset fields keep their value")
	require.Equal(t, "Byron", updated.LastName)
	require.NotNil(t, updated.MiddleName)
	require.Equal(t, "King", *updated.MiddleName)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := users.NewService(repo, &stubRoleProvider{}, recordingHasher{})
	ctx := context.Background()

	created, err := svc.Register(ctx, users.RegisterInput{Email: "ada@example.com", Password: "old-passphrase"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, created.ID, users.ProfileUpdate{Password: strPtr("new-passphrase")})
	require.NoError(t, err)
	require.Equal(t, "hashed:new-passphrase", repo.passwords[created.ID])
}

func TestDeactivateFlipsFlag(t *testing.T) {
	repo := newStubUserRepo()
	svc := users.NewService(repo, &stubRoleProvider{}, recordingHasher{})
	ctx := context.Background()

	created, err := svc.Register(ctx, users.RegisterInput{Email: "ada@example.com", Password: "s3cret-passphrase"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, created.ID))

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive, "deactivation must keep the record, flagged inactive")
}

func TestAssignRoleClearsWithNil(t *testing.T) {
	repo := newStubUserRepo()
	svc := users.NewService(repo, &stubRoleProvider{}, recordingHasher{})
	ctx := context.Background()

	created, err := svc.Register(ctx, users.RegisterInput{Email: "ada@example.com", Password: "s3cret-passphrase"})
	require.NoError(t, err)

	updated, err := svc.AssignRole(ctx, created.ID, nil)
	require.NoError(t, err)
	require.Nil(t, updated.RoleID)
}
