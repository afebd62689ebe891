package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	apperrors "github.com/tendant/user-role-service/pkg/errors"
	"github.com/tendant/user-role-service/pkg/role"
	"github.com/tendant/user-role-service/pkg/utils"
)

// RoleRequest is the body of role create and update requests
type RoleRequest struct {
	ID          string `json:"id"`
	Rolename    string `json:"rolename"`
	Description string `json:"description"`
}

// RoleHandler handles HTTP requests for role management
type RoleHandler struct {
	roleService *role.RoleService
	// locationBase is the absolute URL of the role collection, e.g. http://localhost:8080/api/role
	locationBase string
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *role.RoleService, locationBase string) *RoleHandler {
	return &RoleHandler{
		roleService:  roleService,
		locationBase: locationBase,
	}
}

// ListRoles handles GET /
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.FindRoles(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, roles)
}

// GetRole handles GET /{id}
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	found, err := h.roleService.GetRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, found)
}

// CreateRole handles POST /. The id in the body is ignored.
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	if !utils.AcceptsJSON(r) {
		utils.RenderError(w, r, apperrors.Newf(apperrors.ErrCodeUnsupportedMedia, "cannot produce JSON for Accept: %q", r.Header.Get("Accept")))
		return
	}

	candidate, err := decodeRole(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.roleService.CreateRole(r.Context(), candidate)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	w.Header().Set("Location", utils.Location(h.locationBase, created.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// UpdateRole handles PUT /{id}. The path id wins over the body id.
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if err := utils.RequireJSONBody(r); err != nil {
		utils.RenderError(w, r, err)
		return
	}

	candidate, err := decodeRole(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	candidate.ID = chi.URLParam(r, "id")

	updated, err := h.roleService.UpdateRole(r.Context(), candidate)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

// DeleteRole handles DELETE /{id}; deleting an unknown id answers 200 with no body
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.roleService.DeleteRole(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	if deleted == nil {
		utils.RenderEmpty(w, http.StatusOK)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, deleted)
}

func decodeRole(r *http.Request) (role.Role, error) {
	var req RoleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return role.Role{}, err
	}

	var candidate role.Role
	if err := copier.Copy(&candidate, &req); err != nil {
		slog.Error("Failed to map role request", "error", err)
		return role.Role{}, apperrors.InternalWrap(err, "failed to map role request")
	}
	return candidate, nil
}

// Handler returns a http.Handler for the role API
func Handler(h *RoleHandler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListRoles)
	r.Post("/", h.CreateRole)
	r.Get("/{id}", h.GetRole)
	r.Put("/{id}", h.UpdateRole)
	r.Delete("/{id}", h.DeleteRole)

	return r
}
