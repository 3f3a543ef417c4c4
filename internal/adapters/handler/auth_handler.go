package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hanbit-center/attendance-service/internal/adapters/middleware"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type AuthHandler struct {
	identity ports.IdentityService
}

func NewAuthHandler(identity ports.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type loginRequest struct {
	Email      string `json:"email"`
	AccessCode string `json:"access_code"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.AccessCode == "" {
		http.Error(w, "email and access_code are required", http.StatusBadRequest)
		return
	}

	token, err := h.identity.Login(r.Context(), req.Email, req.AccessCode)
	if err != nil {
		// Do not leak whether the account exists.
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, _ := r.Context().Value(middleware.TokenKey).(string)
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}
	if err := h.identity.SignOut(r.Context(), token); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me resolves the session principal to its role and, for teachers, the
// assigned sub-programs. A degraded identity is surfaced as a warning so
// the UI can tell the user access may be incomplete.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	principal := middleware.Principal(r.Context())
	identity, err := h.identity.Resolve(r.Context(), principal.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := map[string]any{"identity": identity}
	if identity.Degraded {
		resp["warning"] = "profile service unreachable; operating with reduced access until reconnected"
	}
	respondJSON(w, http.StatusOK, resp)
}
