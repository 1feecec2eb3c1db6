// Package business hosts the demo protected endpoints. Each route declares
// its authorization descriptor at registration; the lists themselves are
// static stand-ins for a real data layer.
package business

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sentra-auth/sentra/internal/platform/httpx"
	"github.com/sentra-auth/sentra/internal/rbac"
)

// Names of the stock protected resources.
const (
	ResourceUsers    = "users"
	ResourceProducts = "products"
	ResourceOrders   = "orders"
)

// Handler serves the protected resource listings.
type Handler struct {
	rbac rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(rbacMW rbac.Middleware) *Handler {
	return &Handler{rbac: rbacMW}
}

// MountRoutes registers the protected listings, each with its descriptor.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.Require(rbac.Descriptor{Resource: ResourceProducts, Action: rbac.ActionRead})).
		Get("/products", h.listProducts)
	r.With(h.rbac.Require(rbac.Descriptor{Resource: ResourceOrders, Action: rbac.ActionRead})).
		Get("/orders", h.listOrders)
	r.With(h.rbac.Require(rbac.Descriptor{Resource: ResourceUsers, Action: rbac.ActionRead})).
		Get("/users", h.listUsers)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string][]string{"products": {"Product A", "Product B"}})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string][]string{"orders": {"Order X", "Order Y"}})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string][]string{"users": {"User1", "User2"}})
}
