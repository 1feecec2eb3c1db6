package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentra-auth/sentra/internal/auth"
	"github.com/sentra-auth/sentra/internal/shared"
)

func authenticateRequest(t *testing.T, mw auth.Middleware, header string) (*httptest.ResponseRecorder, *shared.Identity) {
	t.Helper()
	var seen *shared.Identity
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/business/orders", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticatePassesAnonymousThrough(t *testing.T) {
	svc := auth.NewService(&stubRepo{}, newTokens(t), plainHasher{})
	mw := auth.Middleware{Service: svc}

	rec, seen := authenticateRequest(t, mw, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, seen, "anonymous request must carry no identity")

	// Non-bearer schemes are ignored the same way.
	rec, seen = authenticateRequest(t, mw, "Basic dXNlcjpwYXNz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, seen)
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	user := activeUser()
	svc := auth.NewService(&stubRepo{user: user}, newTokens(t), plainHasher{})
	mw := auth.Middleware{Service: svc}

	tok, err := svc.Login(context.Background(), user.Email, "correct horse")
	require.NoError(t, err)

	rec, seen := authenticateRequest(t, mw, "Bearer "+tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, user.ID, seen.ID)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	user := activeUser()
	svc := auth.NewService(&stubRepo{user: user}, newTokens(t), plainHasher{})
	mw := auth.Middleware{Service: svc}

	tok, err := svc.Login(context.Background(), user.Email, "correct horse")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"malformed", "Bearer not.a.token"},
		{"tampered", "Bearer " + tok[:len(tok)-2] + "xx"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, seen := authenticateRequest(t, mw, tc.header)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Nil(t, seen)
		})
	}
}

func TestAuthenticateRejectsDeactivatedBearer(t *testing.T) {
	user := activeUser()
	svc := auth.NewService(&stubRepo{user: user}, newTokens(t), plainHasher{})
	mw := auth.Middleware{Service: svc}

	tok, err := svc.Login(context.Background(), user.Email, "correct horse")
	require.NoError(t, err)

	user.IsActive = false
	rec, seen := authenticateRequest(t, mw, "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, seen)
}

func TestRequireUser(t *testing.T) {
	mw := auth.Middleware{}
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	ident := &shared.Identity{ID: 7, IsActive: true}
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), ident))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
