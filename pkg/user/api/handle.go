package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	apperrors "github.com/tendant/user-role-service/pkg/errors"
	"github.com/tendant/user-role-service/pkg/user"
	"github.com/tendant/user-role-service/pkg/utils"
)

// RoleReference is a role as embedded in a user document
type RoleReference struct {
	ID          string `json:"id"`
	Rolename    string `json:"rolename"`
	Description string `json:"description"`
}

// UserRequest is the body of user create and update requests
type UserRequest struct {
	UserID string          `json:"userId"`
	Name   string          `json:"name"`
	Roles  []RoleReference `json:"roles"`
}

// UserHandler handles HTTP requests for user management
type UserHandler struct {
	userService  *user.UserService
	locationBase string
}

// NewUserHandler creates a new user handler; locationBase is the absolute URL of the user collection
func NewUserHandler(userService *user.UserService, locationBase string) *UserHandler {
	return &UserHandler{
		userService:  userService,
		locationBase: locationBase,
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.FindUsers(r.Context())
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	found, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, found)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	candidate, err := decodeUser(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	created, err := h.userService.CreateUser(r.Context(), candidate)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	w.Header().Set("Location", utils.Location(h.locationBase, created.UserID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// UpdateUser handles PUT /{id}. The path id wins over the body userId.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	candidate, err := decodeUser(r)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}
	candidate.UserID = chi.URLParam(r, "id")

	updated, err := h.userService.UpdateUser(r.Context(), candidate)
	if err != nil {
		utils.RenderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, updated)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "id"))
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

func decodeUser(r *http.Request) (user.User, error) {
	if err := utils.RequireJSONBody(r); err != nil {
		return user.User{}, err
	}

	var req UserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return user.User{}, err
	}

	var candidate user.User
	if err := copier.Copy(&candidate, &req); err != nil {
		slog.Error("Failed to map user request", "error", err)
		return user.User{}, apperrors.InternalWrap(err, "failed to map user request")
	}
	return candidate, nil
}

// Handler returns a http.Handler for the user API
func Handler(h *UserHandler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Get("/{id}", h.GetUser)
	r.Put("/{id}", h.UpdateUser)
	r.Delete("/{id}", h.DeleteUser)

	return r
}
