package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/sentra-auth/sentra/internal/auth"
	"github.com/sentra-auth/sentra/internal/business"
	"github.com/sentra-auth/sentra/internal/rbac"
	"github.com/sentra-auth/sentra/internal/roles"
	"github.com/sentra-auth/sentra/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthMiddleware  auth.Middleware
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	RolesHandler    *roles.Handler
	RBACHandler     *rbac.Handler
	BusinessHandler *business.Handler
}

// NewRouter constructs the chi.Router with Sentra defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
		Auth:   params.AuthMiddleware,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	loginLimit, loginWindow := 10, time.Minute
	if params.Config != nil {
		if params.Config.LoginRateLimit > 0 {
			loginLimit = params.Config.LoginRateLimit
		}
		if params.Config.LoginRateWindow > 0 {
			loginWindow = params.Config.LoginRateWindow
		}
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(httprate.LimitByIP(loginLimit, loginWindow)).Group(func(r chi.Router) {
			params.AuthHandler.MountRoutes(r)
		})
		params.UsersHandler.MountPublicRoutes(r)
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireUser)
		params.UsersHandler.MountProfileRoutes(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireUser)
		params.RBACHandler.MountRoutes(r)
		params.RolesHandler.MountRoutes(r)
		params.UsersHandler.MountAdminRoutes(r)
	})

	r.Route("/business", func(r chi.Router) {
		params.BusinessHandler.MountRoutes(r)
	})

	return r
}
