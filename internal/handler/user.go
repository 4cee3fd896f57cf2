package handler

import (
	"net/http"
	"strings"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/pager"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler serves profiles and admin user management.
type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// Profile handles GET /users/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Profile(r.Context(), ClaimsFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users?role=&page=&page_size=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := model.Role(strings.ToUpper(r.URL.Query().Get("role")))
	if role != "" && role != model.RoleAll && !role.Valid() {
		writeError(w, http.StatusBadRequest, "role must be one of ALL, USER, ORGANIZER, ADMIN")
		return
	}

	q := pager.NewQuery().WithFilter(role)
	q.PageSize = queryInt(r, "page_size", pager.DefaultPageSize)
	q = q.WithPage(queryInt(r, "page", 1))

	page, err := h.svc.List(r.Context(), ClaimsFrom(r.Context()), q)
	if err != nil {
		writeServiceError(w, r, h.log, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// UpdateUser handles PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := h.svc.Update(r.Context(), ClaimsFrom(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), ClaimsFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.log, err, "user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
