package rbac

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sentra-auth/sentra/internal/platform/httpx"
)

// Handler exposes administrative CRUD for the rule matrix and resources.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers rule and resource routes. Everything here is
// superuser-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.RequireSuperuser)

		r.Get("/rules", h.listRules)
		r.Post("/rules", h.createRule)
		r.Get("/rules/{id}", h.getRule)
		r.Patch("/rules/{id}", h.updateRule)
		r.Delete("/rules/{id}", h.deleteRule)

		r.Get("/resources", h.listResources)
		r.Post("/resources", h.createResource)
		r.Get("/resources/{id}", h.getResource)
		r.Delete("/resources/{id}", h.deleteResource)
	})
}

type ruleFlags struct {
	ReadPermission      bool `json:"read_permission"`
	ReadAllPermission   bool `json:"read_all_permission"`
	CreatePermission    bool `json:"create_permission"`
	UpdatePermission    bool `json:"update_permission"`
	UpdateAllPermission bool `json:"update_all_permission"`
	DeletePermission    bool `json:"delete_permission"`
	DeleteAllPermission bool `json:"delete_all_permission"`
}

type createRuleRequest struct {
	RoleID     int64 `json:"role_id" validate:"required,gt=0"`
	ResourceID int64 `json:"resource_id" validate:"required,gt=0"`
	ruleFlags
}

type ruleResponse struct {
	ID         int64 `json:"id"`
	RoleID     int64 `json:"role_id"`
	ResourceID int64 `json:"resource_id"`
	ruleFlags
}

func toRuleResponse(rule Rule) ruleResponse {
	return ruleResponse{
		ID:         rule.ID,
		RoleID:     rule.RoleID,
		ResourceID: rule.ResourceID,
		ruleFlags: ruleFlags{
			ReadPermission:      rule.ReadPermission,
			ReadAllPermission:   rule.ReadAllPermission,
			CreatePermission:    rule.CreatePermission,
			UpdatePermission:    rule.UpdatePermission,
			UpdateAllPermission: rule.UpdateAllPermission,
			DeletePermission:    rule.DeletePermission,
			DeleteAllPermission: rule.DeleteAllPermission,
		},
	}
}

func applyFlags(rule *Rule, f ruleFlags) {
	rule.ReadPermission = f.ReadPermission
	rule.ReadAllPermission = f.ReadAllPermission
	rule.CreatePermission = f.CreatePermission
	rule.UpdatePermission = f.UpdatePermission
	rule.UpdateAllPermission = f.UpdateAllPermission
	rule.DeletePermission = f.DeletePermission
	rule.DeleteAllPermission = f.DeleteAllPermission
}

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		h.logger.Error("list rules", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRuleResponse(rule))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createRule(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rule := Rule{RoleID: req.RoleID, ResourceID: req.ResourceID}
	applyFlags(&rule, req.ruleFlags)
	created, err := h.service.CreateRule(r.Context(), rule)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toRuleResponse(created))
}

func (h *Handler) getRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rule, err := h.service.GetRule(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRuleResponse(rule))
}

func (h *Handler) updateRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rule, err := h.service.GetRule(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	flags := ruleFlags{
		ReadPermission:      rule.ReadPermission,
		ReadAllPermission:   rule.ReadAllPermission,
		CreatePermission:    rule.CreatePermission,
		UpdatePermission:    rule.UpdatePermission,
		UpdateAllPermission: rule.UpdateAllPermission,
		DeletePermission:    rule.DeletePermission,
		DeleteAllPermission: rule.DeleteAllPermission,
	}
	if err := httpx.DecodeJSON(r, &flags); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	applyFlags(&rule, flags)
	updated, err := h.service.UpdateRule(r.Context(), rule)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRuleResponse(updated))
}

func (h *Handler) deleteRule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRule(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resourceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		h.logger.Error("list resources", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]resourceResponse, 0, len(resources))
	for _, res := range resources {
		out = append(out, resourceResponse{ID: res.ID, Name: res.Name})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createResource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	res, err := h.service.CreateResource(r.Context(), req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, resourceResponse{ID: res.ID, Name: res.Name})
}

func (h *Handler) getResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resourceResponse{ID: res.ID, Name: res.Name})
}

func (h *Handler) deleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteResource(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid id")
		return 0, false
	}
	return id, true
}
