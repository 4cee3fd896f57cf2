package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/ticketdesk/internal/model"
	"github.com/Shivanand-hulikatti/ticketdesk/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	u, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "user")
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /auth/login
// Returns a bearer token together with the account it identifies.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.log, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /auth/logout
// Credentials live client side; this only acknowledges the clear.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
