package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sentra-auth/sentra/internal/platform/httpx"
	"github.com/sentra-auth/sentra/internal/shared"
	"github.com/sentra-auth/sentra/internal/token"
)

const bearerPrefix = "Bearer "

// Middleware authenticates requests from the Authorization header.
type Middleware struct {
	Logger  *slog.Logger
	Service *Service
}

// Authenticate resolves the bearer token, if any, and attaches the identity
// to the request context. A missing header means the request proceeds
// anonymously and downstream authorization denies by default. A present but
// bad token is rejected here with the same response whether it is malformed,
// forged or expired; logs keep the distinction.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimPrefix(header, bearerPrefix)
		ident, err := m.Service.ResolveToken(r.Context(), raw)
		if err != nil {
			if m.Logger != nil {
				switch {
				case errors.Is(err, token.ErrExpiredToken):
					m.Logger.Info("expired token", slog.String("path", r.URL.Path))
				case errors.Is(err, token.ErrInvalidToken):
					m.Logger.Warn("invalid token", slog.String("path", r.URL.Path))
				default:
					m.Logger.Info("token rejected", slog.String("path", r.URL.Path))
				}
			}
			httpx.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), ident)))
	})
}

// RequireUser rejects anonymous requests. It guards endpoints that need an
// identity but no particular permission, such as the profile.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.IdentityFromContext(r.Context()) == nil {
			httpx.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
