package rbac

import (
	"log/slog"
	"net/http"

	"github.com/sentra-auth/sentra/internal/platform/httpx"
	"github.com/sentra-auth/sentra/internal/shared"
)

// Middleware wires authorization checks into the HTTP layer. Each protected
// route declares its descriptor once at registration; there is no runtime
// probing of handler attributes.
type Middleware struct {
	Engine *Engine
	Logger *slog.Logger
}

// Require enforces the descriptor for every request passing through.
// Anonymous requests get 401, authenticated-but-denied requests 403.
func (m Middleware) Require(d Descriptor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := shared.IdentityFromContext(r.Context())
			if ident == nil {
				httpx.Unauthorized(w)
				return
			}
			ok, err := m.Engine.Authorize(r.Context(), ident, d)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authorize", slog.String("resource", d.Resource), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !ok {
				httpx.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperuser guards administrative endpoints (rule-matrix CRUD, role
// and resource management, user administration).
func (m Middleware) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := shared.IdentityFromContext(r.Context())
		if ident == nil {
			httpx.Unauthorized(w)
			return
		}
		if !ident.IsActive || !ident.IsSuperuser {
			httpx.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
